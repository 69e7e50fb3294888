package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/m4l0n6/task-quest-gamify/internal/logger"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type Service struct {
	users         *storage.UserRepo
	tasks         *storage.TaskRepo
	daily         *storage.DailyTaskRepo
	badges        *storage.BadgeRepo
	notifications *storage.NotificationRepo

	clock clockwork.Clock
	loc   *time.Location
	log   *logger.Logger
}

type Option func(*Service)

func WithClock(c clockwork.Clock) Option   { return func(s *Service) { s.clock = c } }
func WithLocation(l *time.Location) Option { return func(s *Service) { s.loc = l } }
func WithLogger(l *logger.Logger) Option   { return func(s *Service) { s.log = l } }

func NewService(kv storage.KV, opts ...Option) *Service {
	s := &Service{
		users:         storage.NewUserRepo(kv),
		tasks:         storage.NewTaskRepo(kv),
		daily:         storage.NewDailyTaskRepo(kv),
		badges:        storage.NewBadgeRepo(kv),
		notifications: storage.NewNotificationRepo(kv),
		clock:         clockwork.NewRealClock(),
		loc:           time.Local,
		log:           logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) UserRepo() *storage.UserRepo                 { return s.users }
func (s *Service) TaskRepo() *storage.TaskRepo                 { return s.tasks }
func (s *Service) DailyTaskRepo() *storage.DailyTaskRepo       { return s.daily }
func (s *Service) BadgeRepo() *storage.BadgeRepo               { return s.badges }
func (s *Service) NotificationRepo() *storage.NotificationRepo { return s.notifications }
func (s *Service) Clock() clockwork.Clock                      { return s.clock }
func (s *Service) Location() *time.Location                    { return s.loc }

func (s *Service) now() time.Time { return s.clock.Now().In(s.loc) }

// getUser loads the current user for sess. Level is re-derived from XP so a
// hand-edited store cannot drift.
func (s *Service) getUser(ctx context.Context, sess *Session) (*storage.User, error) {
	if sess == nil {
		return nil, errNoUser()
	}
	u, err := s.users.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil || u.ID != sess.UserID {
		return nil, errNoUser()
	}
	if computed := Level(u.XP); u.Level != computed {
		u.Level = computed
		if err := s.users.Save(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// CurrentUser returns the user behind sess.
func (s *Service) CurrentUser(ctx context.Context, sess *Session) (*storage.User, error) {
	return s.getUser(ctx, sess)
}

func (s *Service) notify(ctx context.Context, typ NotificationType, msg string) error {
	n := storage.Notification{
		ID:        uuid.NewString(),
		Type:      string(typ),
		Message:   msg,
		CreatedAt: s.now(),
	}
	return s.notifications.Prepend(ctx, n)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
