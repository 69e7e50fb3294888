package session

import (
	"context"
	"time"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type rival struct {
	id, name      string
	xp, completed int
	tokens        int
	streak        int
	loginDaysAgo  int
	createdAgo    int
	lastSeenAgo   int
}

var demoRivals = []rival{
	{"user1", "alice99", 850, 42, 200, 3, 1, 30, 2},
	{"user2", "bob_smith", 1200, 76, 350, 5, 1, 45, 1},
	{"user3", "gamer_master", 1560, 108, 460, 7, 1, 60, 3},
	{"user4", "productivity_queen", 2100, 135, 590, 12, 1, 90, 5},
	{"user5", "task_champion", 400, 28, 120, 1, 2, 15, 7},
}

// DemoRivals builds the sample leaderboard users relative to now.
func DemoRivals(now time.Time) []storage.User {
	day := 24 * time.Hour
	out := make([]storage.User, 0, len(demoRivals))
	for _, r := range demoRivals {
		last := now.Add(-time.Duration(r.loginDaysAgo) * day)
		out = append(out, storage.User{
			ID:               r.id,
			Username:         r.name,
			AvatarURL:        defaultAvatar(r.id),
			XP:               r.xp,
			Level:            engine.Level(r.xp),
			CompletedTasks:   r.completed,
			Tokens:           r.tokens,
			LastDailyLogin:   &last,
			DailyLoginStreak: r.streak,
			CreatedAt:        now.Add(-time.Duration(r.createdAgo) * day),
			LastLoginAt:      now.Add(-time.Duration(r.lastSeenAgo) * day),
		})
	}
	return out
}

func (m *Manager) seedRivals(ctx context.Context) error {
	dir, err := m.users.Directory(ctx)
	if err != nil {
		return err
	}
	if len(dir) > 0 {
		return nil
	}
	return m.users.SaveDirectory(ctx, DemoRivals(m.engine.Clock().Now()))
}
