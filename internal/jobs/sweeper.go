package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/logger"
	"github.com/m4l0n6/task-quest-gamify/internal/session"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

// Sweeper periodically regenerates the daily challenges and raises deadline
// reminders for the signed-in user.
type Sweeper struct {
	engine   *engine.Service
	sessions *session.Manager
	interval time.Duration
	serial   *sync.Mutex
	log      *logger.Logger

	sched gocron.Scheduler
}

type Option func(*Sweeper)

func WithLogger(l *logger.Logger) Option { return func(w *Sweeper) { w.log = l } }

// WithSerial shares a lock with other writers of the same store.
func WithSerial(mu *sync.Mutex) Option { return func(w *Sweeper) { w.serial = mu } }

func NewSweeper(eng *engine.Service, mgr *session.Manager, interval time.Duration, opts ...Option) *Sweeper {
	w := &Sweeper{
		engine:   eng,
		sessions: mgr,
		interval: interval,
		serial:   &sync.Mutex{},
		log:      logger.Nop(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

type SweepResult struct {
	UserID         string
	DailyRefreshed bool
	Reminders      []storage.Task
	Unread         int
}

// RunOnce performs one sweep. With nobody signed in it does nothing.
func (w *Sweeper) RunOnce(ctx context.Context) (*SweepResult, error) {
	w.serial.Lock()
	defer w.serial.Unlock()

	sess, err := w.sessions.Current(ctx)
	if err != nil {
		if engine.IsNotFound(err) {
			return &SweepResult{}, nil
		}
		return nil, err
	}
	refreshed, err := w.engine.RefreshDailyTasks(ctx)
	if err != nil {
		return nil, err
	}
	due, err := w.engine.SweepDeadlines(ctx, sess)
	if err != nil {
		return nil, err
	}
	unread, err := w.engine.UnreadCount(ctx)
	if err != nil {
		return nil, err
	}
	if refreshed || len(due) > 0 {
		w.log.Info("sweep", "user_id", sess.UserID, "daily_refreshed", refreshed, "reminders", len(due), "unread", unread)
	}
	return &SweepResult{UserID: sess.UserID, DailyRefreshed: refreshed, Reminders: due, Unread: unread}, nil
}

// Start schedules RunOnce every interval on the engine's clock.
func (w *Sweeper) Start(ctx context.Context) error {
	if w.sched != nil {
		return errors.New("sweeper already started")
	}
	if w.interval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	sched, err := gocron.NewScheduler(gocron.WithClock(w.engine.Clock()))
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.RunOnce(ctx); err != nil {
				w.log.Error("sweep failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return err
	}
	sched.Start()
	w.sched = sched
	w.log.Debug("sweeper started", "interval", w.interval)
	return nil
}

func (w *Sweeper) Stop() error {
	if w.sched == nil {
		return nil
	}
	err := w.sched.Shutdown()
	w.sched = nil
	return err
}
