package storage

import (
	"context"
	"fmt"
)

type CatalogRepo struct {
	kv KV
}

func NewCatalogRepo(kv KV) *CatalogRepo {
	return &CatalogRepo{kv: kv}
}

// ListAll returns the stored catalog. ok is false when it was never written.
func (r *CatalogRepo) ListAll(ctx context.Context) ([]StoreItem, bool, error) {
	items, ok, err := loadJSON[[]StoreItem](ctx, r.kv, KeyStoreItems)
	if err != nil {
		return nil, false, fmt.Errorf("catalog list: %w", err)
	}
	return items, ok, nil
}

func (r *CatalogRepo) SaveAll(ctx context.Context, items []StoreItem) error {
	if items == nil {
		items = []StoreItem{}
	}
	if err := saveJSON(ctx, r.kv, KeyStoreItems, items); err != nil {
		return fmt.Errorf("catalog save: %w", err)
	}
	return nil
}

func (r *CatalogRepo) Get(ctx context.Context, id string) (*StoreItem, error) {
	items, _, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			it := items[i]
			return &it, nil
		}
	}
	return nil, nil
}

type PurchaseRepo struct {
	kv KV
}

func NewPurchaseRepo(kv KV) *PurchaseRepo {
	return &PurchaseRepo{kv: kv}
}

// ListAll returns purchases of every user on this device.
func (r *PurchaseRepo) ListAll(ctx context.Context) ([]PurchasedItem, error) {
	items, _, err := loadJSON[[]PurchasedItem](ctx, r.kv, KeyPurchases)
	if err != nil {
		return nil, fmt.Errorf("purchase list: %w", err)
	}
	return items, nil
}

func (r *PurchaseRepo) ListByUser(ctx context.Context, userID string) ([]PurchasedItem, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []PurchasedItem
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PurchaseRepo) SaveAll(ctx context.Context, items []PurchasedItem) error {
	if items == nil {
		items = []PurchasedItem{}
	}
	if err := saveJSON(ctx, r.kv, KeyPurchases, items); err != nil {
		return fmt.Errorf("purchase save: %w", err)
	}
	return nil
}
