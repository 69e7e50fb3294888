package engine

import (
	"context"
	"strings"
	"time"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

// TaskPatch lists the fields to change; nil fields are left alone.
type TaskPatch struct {
	Title         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	XPReward      *int
}

// UpdateTask edits an open task. Changing the XP reward recomputes the token
// reward; moving the deadline re-arms its reminder.
func (s *Service) UpdateTask(ctx context.Context, sess *Session, id string, p TaskPatch) (*storage.Task, error) {
	t, err := s.ownedTask(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return nil, ErrCompletedImmutable
	}

	if p.Title != nil {
		title, err := normalizeTitle(*p.Title)
		if err != nil {
			return nil, err
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	switch {
	case p.ClearDeadline:
		t.Deadline = nil
		t.DeadlineNotified = false
	case p.Deadline != nil:
		d := *p.Deadline
		t.Deadline = &d
		t.DeadlineNotified = false
	}
	if p.XPReward != nil {
		t.XPReward = ClampXP(*p.XPReward)
		t.TokenReward = TokenRewardFor(t.XPReward)
	}

	if _, err := s.tasks.Update(ctx, *t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, sess *Session, id string) error {
	t, err := s.ownedTask(ctx, sess, id)
	if err != nil {
		return err
	}
	if t.Completed {
		return ErrCompletedImmutable
	}
	_, err = s.tasks.Delete(ctx, id)
	return err
}

func (s *Service) GetTask(ctx context.Context, sess *Session, id string) (*storage.Task, error) {
	return s.ownedTask(ctx, sess, id)
}

func (s *Service) ownedTask(ctx context.Context, sess *Session, id string) (*storage.Task, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != u.ID {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	return t, nil
}
