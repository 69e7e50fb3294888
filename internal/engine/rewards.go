package engine

import (
	"context"
	"fmt"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type XPResult struct {
	XP          int
	LevelBefore int
	LevelAfter  int
	LeveledUp   bool
	RankBefore  int
	RankAfter   int
	Badges      []storage.Badge
}

// AddXP grants amount XP to the current user, handling level-ups and the
// level badges and leaderboard notice that follow from them.
func (s *Service) AddXP(ctx context.Context, sess *Session, amount int) (*XPResult, error) {
	if amount <= 0 {
		return nil, InvalidStateError{Reason: "xp amount must be positive"}
	}
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	rankBefore, err := s.rankOf(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	res := &XPResult{LevelBefore: u.Level, RankBefore: rankBefore}
	u.XP += amount
	u.Level = Level(u.XP)
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	res.XP = u.XP
	res.LevelAfter = u.Level
	res.LeveledUp = u.Level > res.LevelBefore

	if res.LeveledUp {
		s.log.Info("level up", "user_id", u.ID, "level", u.Level)
		if err := s.notify(ctx, NotifyLevelUp, fmt.Sprintf("Congratulations! You've reached level %d!", u.Level)); err != nil {
			return nil, err
		}
		unlocked, err := s.CheckLevelBadges(ctx, u.Level)
		if err != nil {
			return nil, err
		}
		res.Badges = unlocked
	}

	res.RankAfter, err = s.rankOf(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if res.RankBefore > 0 && res.RankAfter < res.RankBefore {
		msg := fmt.Sprintf("You climbed to rank #%d on the leaderboard!", res.RankAfter)
		if err := s.notify(ctx, NotifyLeaderboard, msg); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// AddTokens changes the token balance by amount and returns the new balance.
// A negative amount that would overdraw the balance is refused.
func (s *Service) AddTokens(ctx context.Context, sess *Session, amount int) (int, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return u.Tokens, nil
	}
	if u.Tokens+amount < 0 {
		return u.Tokens, InsufficientFundsError{Need: -amount, Have: u.Tokens}
	}
	u.Tokens += amount
	if err := s.users.Save(ctx, u); err != nil {
		return 0, err
	}

	msg := fmt.Sprintf("You earned %d tokens!", amount)
	if amount < 0 {
		msg = fmt.Sprintf("You spent %d tokens.", -amount)
	}
	if err := s.notify(ctx, NotifyToken, msg); err != nil {
		return 0, err
	}
	return u.Tokens, nil
}
