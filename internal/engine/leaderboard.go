package engine

import (
	"context"
	"sort"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
}

// GenerateLeaderboard ranks users by XP, highest first. Ties keep their
// directory order.
func GenerateLeaderboard(users []storage.User) []LeaderboardEntry {
	sorted := make([]storage.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].XP > sorted[j].XP })

	out := make([]LeaderboardEntry, len(sorted))
	for i, u := range sorted {
		out[i] = LeaderboardEntry{
			Rank:      i + 1,
			UserID:    u.ID,
			Username:  u.Username,
			AvatarURL: u.AvatarURL,
			XP:        u.XP,
			Level:     Level(u.XP),
		}
	}
	return out
}

func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := s.users.Directory(ctx)
	if err != nil {
		return nil, err
	}
	return GenerateLeaderboard(users), nil
}

// UserRank is the 1-based leaderboard position of the current user.
func (s *Service) UserRank(ctx context.Context, sess *Session) (int, error) {
	u, err := s.getUser(ctx, sess)
	if err != nil {
		return 0, err
	}
	return s.rankOf(ctx, u.ID)
}

// rankOf returns 0 when the user is not in the directory.
func (s *Service) rankOf(ctx context.Context, userID string) (int, error) {
	board, err := s.Leaderboard(ctx)
	if err != nil {
		return 0, err
	}
	for _, e := range board {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return 0, nil
}
