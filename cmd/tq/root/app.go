package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/config"
	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/logger"
	"github.com/m4l0n6/task-quest-gamify/internal/session"
	"github.com/m4l0n6/task-quest-gamify/internal/shop"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

// app bundles the services one CLI invocation works with.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	kv       storage.KV
	engine   *engine.Service
	shop     *shop.Service
	sessions *session.Manager
}

// clock is swapped in tests.
var clock clockwork.Clock = clockwork.NewRealClock()

func openKV(ctx context.Context, cfg *config.Config) (storage.KV, func(), error) {
	switch cfg.Store {
	case "memory":
		return storage.NewMemoryKV(), func() {}, nil
	case "redis":
		kv, err := storage.OpenRedis(ctx, cfg.RedisURL, "tq:")
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	default:
		path, err := storage.ResolveDBPath(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		kv, err := storage.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	}
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		log.Sync()
		return nil, nil, err
	}

	eng := engine.NewService(kv,
		engine.WithClock(clock),
		engine.WithLocation(cfg.Location),
		engine.WithLogger(log.With("component", "engine")),
	)
	sh := shop.NewService(kv, shop.WithClock(clock), shop.WithLogger(log.With("component", "shop")))
	mgr := session.NewManager(eng, sh,
		session.WithLogger(log.With("component", "session")),
		session.WithDemoRivals(cfg.DemoRivals),
	)
	cleanup := func() {
		closeKV()
		log.Sync()
	}
	return &app{cfg: cfg, log: log, kv: kv, engine: eng, shop: sh, sessions: mgr}, cleanup, nil
}

func (a *app) localProvider() session.LocalProvider {
	return session.LocalProvider{Profile: session.Profile{
		ID:        a.cfg.UserID,
		Username:  a.cfg.Username,
		AvatarURL: a.cfg.AvatarURL,
	}}
}

// begin resumes the stored user's session and prints what the session start
// produced (login reward, deadline reminders).
func (a *app) begin(ctx context.Context, out io.Writer) (*engine.Session, error) {
	res, err := a.sessions.Resume(ctx)
	if err != nil {
		if engine.IsNotFound(err) {
			return nil, errors.New("no current user; run `tq login` first")
		}
		return nil, err
	}
	printStart(out, res, a.cfg.Location)
	return res.Session, nil
}

func printStart(out io.Writer, res *session.StartResult, loc *time.Location) {
	if res.Login.FirstLoginToday {
		fmt.Fprintf(out, "%s Day %d streak: %s\n", ui.IconFire, res.Login.Streak, ui.Good.Render(fmt.Sprintf("+%d tokens", res.Login.TokensAwarded)))
	}
	for _, t := range res.Reminders {
		fmt.Fprintf(out, "%s %s %s\n", ui.IconClock, ui.Warn.Render(t.Title), ui.Muted.Render("due "+t.Deadline.In(loc).Format("Mon Jan 2 15:04")))
	}
}

// resolveTaskID accepts a full task id or a unique prefix of one.
func (a *app) resolveTaskID(ctx context.Context, sess *engine.Session, arg string) (string, error) {
	tasks, err := a.engine.ListTasks(ctx, sess, engine.FilterAll, engine.SortNewest)
	if err != nil {
		return "", err
	}
	var match string
	for _, t := range tasks {
		if t.ID == arg {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("task id %q is ambiguous", arg)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", engine.NotFoundError{Kind: "task", ID: arg}
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseDeadline reads RFC 3339, "2006-01-02 15:04", "2006-01-02" (end of
// day) or a duration from now such as "36h".
func parseDeadline(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t.Add(24*time.Hour - time.Minute), nil
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return now.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("cannot read deadline %q (use 2006-01-02, \"2006-01-02 15:04\", RFC 3339 or a duration like 36h)", s)
}
