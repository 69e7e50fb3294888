package storage

import (
	"context"
	"fmt"
)

type TaskRepo struct {
	kv KV
}

func NewTaskRepo(kv KV) *TaskRepo {
	return &TaskRepo{kv: kv}
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]Task, error) {
	tasks, _, err := loadJSON[[]Task](ctx, r.kv, KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	return tasks, nil
}

// ListByUser returns tasks owned by userID in stored order.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, t := range all {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TaskRepo) SaveAll(ctx context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	if err := saveJSON(ctx, r.kv, KeyTasks, tasks); err != nil {
		return fmt.Errorf("task save: %w", err)
	}
	return nil
}

func (r *TaskRepo) Get(ctx context.Context, id string) (*Task, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			t := all[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TaskRepo) Insert(ctx context.Context, t Task) error {
	all, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	return r.SaveAll(ctx, append(all, t))
}

// Update replaces the task with the same id. Returns false if it was not found.
func (r *TaskRepo) Update(ctx context.Context, t Task) (bool, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return false, err
	}
	for i := range all {
		if all[i].ID == t.ID {
			all[i] = t
			return true, r.SaveAll(ctx, all)
		}
	}
	return false, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return false, err
	}
	kept := all[:0]
	found := false
	for _, t := range all {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return false, nil
	}
	return true, r.SaveAll(ctx, kept)
}
