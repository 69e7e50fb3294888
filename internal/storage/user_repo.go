package storage

import (
	"context"
	"fmt"
)

type UserRepo struct {
	kv KV
}

func NewUserRepo(kv KV) *UserRepo {
	return &UserRepo{kv: kv}
}

// Current returns the signed-in user, or nil when nobody is signed in.
func (r *UserRepo) Current(ctx context.Context) (*User, error) {
	u, _, err := loadJSON[*User](ctx, r.kv, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("user current: %w", err)
	}
	return u, nil
}

// Save writes the current user and upserts the same record into the directory.
func (r *UserRepo) Save(ctx context.Context, u *User) error {
	if err := saveJSON(ctx, r.kv, KeyUser, u); err != nil {
		return fmt.Errorf("user save: %w", err)
	}
	users, err := r.Directory(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = *u
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, *u)
	}
	return r.SaveDirectory(ctx, users)
}

// Clear signs the current user out. The directory is left alone.
func (r *UserRepo) Clear(ctx context.Context) error {
	if err := saveJSON(ctx, r.kv, KeyUser, nil); err != nil {
		return fmt.Errorf("user clear: %w", err)
	}
	return nil
}

// Directory lists every user known on this device.
func (r *UserRepo) Directory(ctx context.Context) ([]User, error) {
	users, _, err := loadJSON[[]User](ctx, r.kv, KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("user directory: %w", err)
	}
	return users, nil
}

func (r *UserRepo) SaveDirectory(ctx context.Context, users []User) error {
	if users == nil {
		users = []User{}
	}
	if err := saveJSON(ctx, r.kv, KeyUsers, users); err != nil {
		return fmt.Errorf("user directory save: %w", err)
	}
	return nil
}

// Lookup finds a user in the directory by id. Missing is (nil, nil).
func (r *UserRepo) Lookup(ctx context.Context, id string) (*User, error) {
	users, err := r.Directory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}
