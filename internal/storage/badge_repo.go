package storage

import (
	"context"
	"fmt"
	"time"
)

type BadgeRepo struct {
	kv KV
}

func NewBadgeRepo(kv KV) *BadgeRepo {
	return &BadgeRepo{kv: kv}
}

func (r *BadgeRepo) ListAll(ctx context.Context) ([]Badge, error) {
	badges, _, err := loadJSON[[]Badge](ctx, r.kv, KeyBadges)
	if err != nil {
		return nil, fmt.Errorf("badge list: %w", err)
	}
	return badges, nil
}

func (r *BadgeRepo) SaveAll(ctx context.Context, badges []Badge) error {
	if badges == nil {
		badges = []Badge{}
	}
	if err := saveJSON(ctx, r.kv, KeyBadges, badges); err != nil {
		return fmt.Errorf("badge save: %w", err)
	}
	return nil
}

// Unlock stamps the badge with at. It returns nil when the badge is missing
// or already unlocked, so an unlock happens at most once.
func (r *BadgeRepo) Unlock(ctx context.Context, id string, at time.Time) (*Badge, error) {
	badges, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range badges {
		if badges[i].ID != id {
			continue
		}
		if badges[i].UnlockedAt != nil {
			return nil, nil
		}
		ts := at
		badges[i].UnlockedAt = &ts
		if err := r.SaveAll(ctx, badges); err != nil {
			return nil, err
		}
		b := badges[i]
		return &b, nil
	}
	return nil, nil
}

// CountUnlocked reports how many badges carry an unlock timestamp.
func (r *BadgeRepo) CountUnlocked(ctx context.Context) (int, error) {
	badges, err := r.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range badges {
		if b.Unlocked() {
			n++
		}
	}
	return n, nil
}
