package storage

import (
	"context"
	"fmt"
)

type NotificationRepo struct {
	kv KV
}

func NewNotificationRepo(kv KV) *NotificationRepo {
	return &NotificationRepo{kv: kv}
}

// ListAll returns notifications newest first.
func (r *NotificationRepo) ListAll(ctx context.Context) ([]Notification, error) {
	ns, _, err := loadJSON[[]Notification](ctx, r.kv, KeyNotifications)
	if err != nil {
		return nil, fmt.Errorf("notification list: %w", err)
	}
	return ns, nil
}

func (r *NotificationRepo) SaveAll(ctx context.Context, ns []Notification) error {
	if ns == nil {
		ns = []Notification{}
	}
	if err := saveJSON(ctx, r.kv, KeyNotifications, ns); err != nil {
		return fmt.Errorf("notification save: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Prepend(ctx context.Context, n Notification) error {
	ns, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	return r.SaveAll(ctx, append([]Notification{n}, ns...))
}

// MarkRead flags one notification. Returns false if the id is unknown.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	ns, err := r.ListAll(ctx)
	if err != nil {
		return false, err
	}
	for i := range ns {
		if ns[i].ID == id {
			ns[i].Read = true
			return true, r.SaveAll(ctx, ns)
		}
	}
	return false, nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context) error {
	ns, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range ns {
		ns[i].Read = true
	}
	return r.SaveAll(ctx, ns)
}
