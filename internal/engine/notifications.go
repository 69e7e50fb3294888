package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

// DeadlineWindow is how far ahead an open task's deadline triggers a reminder.
const DeadlineWindow = 24 * time.Hour

// SweepDeadlines reminds the user once per open task whose deadline is due
// within DeadlineWindow or already past.
func (s *Service) SweepDeadlines(ctx context.Context, sess *Session) ([]storage.Task, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	all, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var due []storage.Task
	for i := range all {
		t := &all[i]
		if t.UserID != u.ID || t.Completed || t.Deadline == nil || t.DeadlineNotified {
			continue
		}
		if t.Deadline.Sub(now) > DeadlineWindow {
			continue
		}
		t.DeadlineNotified = true
		due = append(due, *t)
	}
	if len(due) == 0 {
		return nil, nil
	}
	if err := s.tasks.SaveAll(ctx, all); err != nil {
		return nil, err
	}
	for _, t := range due {
		msg := fmt.Sprintf("%q is due %s.", t.Title, dueLabel(*t.Deadline, now))
		if err := s.notify(ctx, NotifyDeadline, msg); err != nil {
			return due, err
		}
	}
	return due, nil
}

func dueLabel(deadline, now time.Time) string {
	if deadline.Before(now) {
		return "overdue"
	}
	left := deadline.Sub(now).Round(time.Hour)
	if left < time.Hour {
		return "within the hour"
	}
	return fmt.Sprintf("in %d hours", int(left.Hours()))
}

func (s *Service) Notifications(ctx context.Context) ([]storage.Notification, error) {
	return s.notifications.ListAll(ctx)
}

func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	ns, err := s.notifications.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, x := range ns {
		if !x.Read {
			n++
		}
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	ok, err := s.notifications.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFoundError{Kind: "notification", ID: id}
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.notifications.MarkAllRead(ctx)
}
