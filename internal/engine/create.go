package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	XPReward    int
}

func (s *Service) CreateTask(ctx context.Context, sess *Session, in CreateTaskInput) (*storage.Task, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return nil, err
	}

	today, err := s.TodayTaskCount(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := CanCreateTask(today); err != nil {
		return nil, err
	}

	xp := ClampXP(in.XPReward)
	t := storage.Task{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now(),
		Deadline:    in.Deadline,
		XPReward:    xp,
		TokenReward: TokenRewardFor(xp),
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}
	if u.LastCreationAt == nil || !sameDay(u.LastCreationAt.In(s.loc), t.CreatedAt) {
		u.DailyCreations = 0
	}
	u.DailyCreations++
	u.LastCreationAt = &t.CreatedAt
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.log.Debug("task created", "task_id", t.ID, "xp", t.XPReward)
	return &t, nil
}

// TodayTaskCount counts tasks the current user created on today's calendar
// day. Deleting a task does not lower the count.
func (s *Service) TodayTaskCount(ctx context.Context, sess *Session) (int, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return 0, err
	}
	tasks, err := s.tasks.ListByUser(ctx, u.ID)
	if err != nil {
		return 0, err
	}
	now := s.now()
	n := 0
	for _, t := range tasks {
		if sameDay(t.CreatedAt.In(s.loc), now) {
			n++
		}
	}
	if u.LastCreationAt != nil && sameDay(u.LastCreationAt.In(s.loc), now) {
		n = max(n, u.DailyCreations)
	}
	return n, nil
}
