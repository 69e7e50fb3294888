package storage

import (
	"context"
	"fmt"
)

type DailyTaskRepo struct {
	kv KV
}

func NewDailyTaskRepo(kv KV) *DailyTaskRepo {
	return &DailyTaskRepo{kv: kv}
}

func (r *DailyTaskRepo) ListAll(ctx context.Context) ([]DailyTask, error) {
	tasks, _, err := loadJSON[[]DailyTask](ctx, r.kv, KeyDailyTasks)
	if err != nil {
		return nil, fmt.Errorf("daily list: %w", err)
	}
	return tasks, nil
}

func (r *DailyTaskRepo) SaveAll(ctx context.Context, tasks []DailyTask) error {
	if tasks == nil {
		tasks = []DailyTask{}
	}
	if err := saveJSON(ctx, r.kv, KeyDailyTasks, tasks); err != nil {
		return fmt.Errorf("daily save: %w", err)
	}
	return nil
}
