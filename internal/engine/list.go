package engine

import (
	"context"
	"sort"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

// ListTasks returns the current user's tasks filtered and sorted.
func (s *Service) ListTasks(ctx context.Context, sess *Session, filter TaskFilter, order TaskSort) ([]storage.Task, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	all, err := s.tasks.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	out := FilterTasks(all, filter)
	SortTasks(out, order)
	return out, nil
}

func FilterTasks(tasks []storage.Task, filter TaskFilter) []storage.Task {
	out := make([]storage.Task, 0, len(tasks))
	for _, t := range tasks {
		switch filter {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// SortTasks orders tasks in place. Tasks without a deadline sort last under
// SortDeadline.
func SortTasks(tasks []storage.Task, order TaskSort) {
	var less func(a, b storage.Task) bool
	switch order {
	case SortOldest:
		less = func(a, b storage.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortXPHigh:
		less = func(a, b storage.Task) bool { return a.XPReward > b.XPReward }
	case SortXPLow:
		less = func(a, b storage.Task) bool { return a.XPReward < b.XPReward }
	case SortDeadline:
		less = func(a, b storage.Task) bool {
			switch {
			case a.Deadline == nil:
				return false
			case b.Deadline == nil:
				return true
			}
			return a.Deadline.Before(*b.Deadline)
		}
	default:
		less = func(a, b storage.Task) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

// CompletedTaskCount is the lifetime counter kept on the user.
func (s *Service) CompletedTaskCount(ctx context.Context, sess *Session) (int, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return 0, err
	}
	return u.CompletedTasks, nil
}
