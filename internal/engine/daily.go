package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

// GenerateDailyTasks builds the fixed daily challenge set for the day of now.
func GenerateDailyTasks(now time.Time) []storage.DailyTask {
	midnight := startOfDay(now).AddDate(0, 0, 1)
	return []storage.DailyTask{
		{
			ID:          uuid.NewString(),
			Title:       "Daily Login",
			Description: "Log in today",
			TokenReward: 5,
			Type:        string(DailyLogin),
			Requirement: 1,
			CreatedAt:   now,
			ExpiresAt:   midnight,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Task Crusher",
			Description: "Complete 2 tasks today",
			TokenReward: 10,
			Type:        string(DailyCompleteTask),
			Requirement: 2,
			CreatedAt:   now,
			ExpiresAt:   midnight,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Streak Keeper",
			Description: "Reach a 3-day login streak",
			TokenReward: 15,
			Type:        string(DailyReachStreak),
			Requirement: 3,
			CreatedAt:   now,
			ExpiresAt:   midnight.AddDate(0, 0, 3),
		},
	}
}

// needsRefresh is true when the set is empty or every task is expired or done.
func needsRefresh(tasks []storage.DailyTask, now time.Time) bool {
	for _, t := range tasks {
		if !t.Completed && !t.ExpiresAt.Before(now) {
			return false
		}
	}
	return true
}

// RefreshDailyTasks replaces the daily set when it has run out.
func (s *Service) RefreshDailyTasks(ctx context.Context) (bool, error) {
	tasks, err := s.daily.ListAll(ctx)
	if err != nil {
		return false, err
	}
	now := s.now()
	if !needsRefresh(tasks, now) {
		return false, nil
	}
	if err := s.daily.SaveAll(ctx, GenerateDailyTasks(now)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) DailyTasks(ctx context.Context) ([]storage.DailyTask, error) {
	return s.daily.ListAll(ctx)
}

// UpdateDailyTaskProgress advances open daily tasks of typ. For reach_streak
// value is the absolute streak; otherwise it is a delta. Returns the tasks
// that completed on this call; their rewards are paid once.
func (s *Service) UpdateDailyTaskProgress(ctx context.Context, sess *Session, typ DailyTaskType, value int) ([]storage.DailyTask, error) {
	if _, err := s.getUser(ctx, sess); err != nil {
		return nil, err
	}
	tasks, err := s.daily.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	changed := false
	var completed []storage.DailyTask
	for i := range tasks {
		t := &tasks[i]
		if t.Type != string(typ) || t.Completed {
			continue
		}
		progress := t.Progress + value
		if typ == DailyReachStreak {
			progress = value
		}
		switch {
		case progress >= t.Requirement:
			t.Progress = t.Requirement
			t.Completed = true
			ts := now
			t.CompletedAt = &ts
			completed = append(completed, *t)
			changed = true
		case progress > t.Progress:
			t.Progress = progress
			changed = true
		}
	}
	if !changed {
		return nil, nil
	}
	if err := s.daily.SaveAll(ctx, tasks); err != nil {
		return nil, err
	}
	for _, t := range completed {
		s.log.Info("daily task completed", "daily", t.Title, "tokens", t.TokenReward)
		if _, err := s.AddTokens(ctx, sess, t.TokenReward); err != nil {
			return completed, err
		}
	}
	return completed, nil
}

type LoginResult struct {
	FirstLoginToday bool
	TokensAwarded   int
	Streak          int
}

// ProcessDailyLogin records today's login once per calendar day and pays the
// streak-scaled login reward.
func (s *Service) ProcessDailyLogin(ctx context.Context, sess *Session) (*LoginResult, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if u.LastDailyLogin != nil && sameDay(u.LastDailyLogin.In(s.loc), now) {
		return &LoginResult{Streak: u.DailyLoginStreak}, nil
	}

	streak := 1
	if u.LastDailyLogin != nil {
		yesterday := startOfDay(now).AddDate(0, 0, -1)
		if sameDay(u.LastDailyLogin.In(s.loc), yesterday) {
			streak = u.DailyLoginStreak + 1
		}
	}
	u.LastDailyLogin = &now
	u.DailyLoginStreak = streak
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	reward := LoginReward(streak)
	if _, err := s.AddTokens(ctx, sess, reward); err != nil {
		return nil, err
	}
	if streak > 1 {
		msg := fmt.Sprintf("%d-day login streak! Keep it going.", streak)
		if err := s.notify(ctx, NotifyStreak, msg); err != nil {
			return nil, err
		}
	}
	if _, err := s.UpdateDailyTaskProgress(ctx, sess, DailyLogin, 1); err != nil {
		return nil, err
	}
	if _, err := s.UpdateDailyTaskProgress(ctx, sess, DailyReachStreak, streak); err != nil {
		return nil, err
	}
	s.log.Info("daily login", "user_id", u.ID, "streak", streak, "tokens", reward)
	return &LoginResult{FirstLoginToday: true, TokensAwarded: reward, Streak: streak}, nil
}
