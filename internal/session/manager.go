package session

import (
	"context"
	"errors"
	"time"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/logger"
	"github.com/m4l0n6/task-quest-gamify/internal/shop"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type Manager struct {
	engine     *engine.Service
	shop       *shop.Service
	users      *storage.UserRepo
	log        *logger.Logger
	demoRivals bool
}

type Option func(*Manager)

func WithLogger(l *logger.Logger) Option { return func(m *Manager) { m.log = l } }

// WithDemoRivals seeds a handful of leaderboard rivals into an empty directory.
func WithDemoRivals(on bool) Option { return func(m *Manager) { m.demoRivals = on } }

func NewManager(eng *engine.Service, sh *shop.Service, opts ...Option) *Manager {
	m := &Manager{
		engine: eng,
		shop:   sh,
		users:  eng.UserRepo(),
		log:    logger.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

type StartResult struct {
	Session        *engine.Session
	User           storage.User
	NewUser        bool
	Login          engine.LoginResult
	DailyRefreshed bool
	Reminders      []storage.Task
}

// Login verifies credential with provider, then resumes the matching user or
// creates a fresh one, and runs the session-start pipeline.
func (m *Manager) Login(ctx context.Context, provider IdentityProvider, credential string) (*StartResult, error) {
	prof, err := provider.Authenticate(ctx, credential)
	if err != nil {
		var ae AuthError
		if !errors.As(err, &ae) {
			err = AuthError{Reason: "identity provider", Err: err}
		}
		m.log.Warn("login rejected", "error", err)
		return nil, err
	}

	if _, err := m.engine.EnsureBadgeCatalog(ctx); err != nil {
		return nil, err
	}
	if m.demoRivals {
		if err := m.seedRivals(ctx); err != nil {
			return nil, err
		}
	}

	now := m.engine.Clock().Now()
	u, isNew, err := m.resolveUser(ctx, prof, now)
	if err != nil {
		return nil, err
	}
	if err := m.users.Save(ctx, u); err != nil {
		return nil, err
	}
	m.log.Info("login", "user_id", u.ID, "new", isNew)

	res, err := m.start(ctx, &engine.Session{UserID: u.ID, StartedAt: now})
	if err != nil {
		return nil, err
	}
	res.NewUser = isNew
	return res, nil
}

func (m *Manager) resolveUser(ctx context.Context, prof *Profile, now time.Time) (*storage.User, bool, error) {
	cur, err := m.users.Current(ctx)
	if err != nil {
		return nil, false, err
	}
	u := cur
	if u == nil || u.ID != prof.ID {
		if u, err = m.users.Lookup(ctx, prof.ID); err != nil {
			return nil, false, err
		}
	}
	if u != nil {
		u.Username = prof.Username
		if prof.AvatarURL != "" {
			u.AvatarURL = prof.AvatarURL
		}
		u.LastLoginAt = now
		return u, false, nil
	}
	return &storage.User{
		ID:          prof.ID,
		Username:    prof.Username,
		AvatarURL:   prof.AvatarURL,
		Level:       1,
		CreatedAt:   now,
		LastLoginAt: now,
	}, true, nil
}

// Resume restarts the session of the user already stored on this device.
func (m *Manager) Resume(ctx context.Context) (*StartResult, error) {
	sess, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	return m.start(ctx, sess)
}

// Current returns a session for the stored user without running the
// session-start pipeline.
func (m *Manager) Current(ctx context.Context) (*engine.Session, error) {
	u, err := m.users.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, engine.NotFoundError{Kind: "user"}
	}
	return &engine.Session{UserID: u.ID, StartedAt: m.engine.Clock().Now()}, nil
}

// Logout forgets the current user. The directory keeps their record.
func (m *Manager) Logout(ctx context.Context) error {
	return m.users.Clear(ctx)
}

// start refreshes the daily set before the login reward so that the login
// challenge of a new day is credited.
func (m *Manager) start(ctx context.Context, sess *engine.Session) (*StartResult, error) {
	if _, err := m.shop.InitCatalog(ctx); err != nil {
		return nil, err
	}
	refreshed, err := m.engine.RefreshDailyTasks(ctx)
	if err != nil {
		return nil, err
	}
	login, err := m.engine.ProcessDailyLogin(ctx, sess)
	if err != nil {
		return nil, err
	}
	reminders, err := m.engine.SweepDeadlines(ctx, sess)
	if err != nil {
		return nil, err
	}
	u, err := m.engine.CurrentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &StartResult{
		Session:        sess,
		User:           *u,
		Login:          *login,
		DailyRefreshed: refreshed,
		Reminders:      reminders,
	}, nil
}
