package engine

import (
	"context"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type CompleteResult struct {
	Task           storage.Task
	XPGained       int
	TokensGained   int
	LevelBefore    int
	LevelAfter     int
	LevelUp        bool
	UnlockedBadges []storage.Badge
	DailyCompleted []storage.DailyTask
}

// CompleteTask finishes a task and pays out its rewards. Nothing is written
// unless the user and the open task both exist.
func (s *Service) CompleteTask(ctx context.Context, sess *Session, id string) (*CompleteResult, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.UserID != u.ID {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	if task.Completed {
		return nil, ErrAlreadyCompleted
	}

	now := s.now()
	task.Completed = true
	task.CompletedAt = &now
	if _, err := s.tasks.Update(ctx, *task); err != nil {
		return nil, err
	}

	u.CompletedTasks++
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	res := &CompleteResult{Task: *task, XPGained: task.XPReward, LevelBefore: u.Level, LevelAfter: u.Level}

	if task.XPReward > 0 {
		xp, err := s.AddXP(ctx, sess, task.XPReward)
		if err != nil {
			return nil, err
		}
		res.LevelAfter = xp.LevelAfter
		res.LevelUp = xp.LeveledUp
		res.UnlockedBadges = append(res.UnlockedBadges, xp.Badges...)
	}

	tokens := task.TokenReward
	if tokens == 0 {
		tokens = TokenRewardFor(task.XPReward)
	}
	if tokens > 0 {
		if _, err := s.AddTokens(ctx, sess, tokens); err != nil {
			return nil, err
		}
	}
	res.TokensGained = tokens

	badges, err := s.CheckTaskBadges(ctx, u.CompletedTasks)
	if err != nil {
		return nil, err
	}
	res.UnlockedBadges = append(res.UnlockedBadges, badges...)

	daily, err := s.UpdateDailyTaskProgress(ctx, sess, DailyCompleteTask, 1)
	if err != nil {
		return nil, err
	}
	res.DailyCompleted = daily

	s.log.Info("task completed", "task_id", task.ID, "xp", res.XPGained, "tokens", res.TokensGained)
	return res, nil
}
