package engine

import (
	"context"
	"fmt"

	"github.com/m4l0n6/task-quest-gamify/internal/catalog"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

// EligibleBadges returns the ids of badges in table whose threshold value
// reaches and that are still locked, in ascending threshold order.
func EligibleBadges(table []catalog.Threshold, value int, badges []storage.Badge) []string {
	locked := map[string]bool{}
	for _, b := range badges {
		if !b.Unlocked() {
			locked[b.ID] = true
		}
	}
	var out []string
	for _, th := range table {
		if value >= th.Value && locked[th.BadgeID] {
			out = append(out, th.BadgeID)
		}
	}
	return out
}

// CheckLevelBadges unlocks every level badge the given level qualifies for.
func (s *Service) CheckLevelBadges(ctx context.Context, level int) ([]storage.Badge, error) {
	return s.checkBadges(ctx, catalog.LevelThresholds(), level)
}

// CheckTaskBadges unlocks every badge for the completed-task count.
func (s *Service) CheckTaskBadges(ctx context.Context, completed int) ([]storage.Badge, error) {
	return s.checkBadges(ctx, catalog.TaskThresholds(), completed)
}

func (s *Service) checkBadges(ctx context.Context, table []catalog.Threshold, value int) ([]storage.Badge, error) {
	badges, err := s.badges.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var unlocked []storage.Badge
	for _, id := range EligibleBadges(table, value, badges) {
		b, err := s.badges.Unlock(ctx, id, s.now())
		if err != nil {
			return unlocked, err
		}
		if b == nil {
			continue
		}
		s.log.Info("badge unlocked", "badge", b.Name)
		if err := s.notify(ctx, NotifyBadge, fmt.Sprintf("You've unlocked the %q badge!", b.Name)); err != nil {
			return unlocked, err
		}
		unlocked = append(unlocked, *b)
	}
	return unlocked, nil
}

// EnsureBadgeCatalog seeds the badge catalog when none is stored yet.
func (s *Service) EnsureBadgeCatalog(ctx context.Context) (bool, error) {
	existing, err := s.badges.ListAll(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	return true, s.badges.SaveAll(ctx, catalog.DefaultBadges())
}

func (s *Service) Badges(ctx context.Context) ([]storage.Badge, error) {
	return s.badges.ListAll(ctx)
}

func (s *Service) UnlockedBadgeCount(ctx context.Context) (int, error) {
	return s.badges.CountUnlocked(ctx)
}
