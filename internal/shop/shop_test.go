package shop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type fixture struct {
	kv   *storage.MemoryKV
	shop *Service
	eng  *engine.Service
	sess *engine.Session
}

func newFixture(t *testing.T, tokens int) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	eng := engine.NewService(kv, engine.WithClock(clock), engine.WithLocation(time.UTC))
	_, err := eng.EnsureBadgeCatalog(ctx)
	require.NoError(t, err)

	sh := NewService(kv, WithClock(clock))
	seeded, err := sh.InitCatalog(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	u := &storage.User{ID: "u1", Username: "ann", Level: 1, Tokens: tokens}
	require.NoError(t, storage.NewUserRepo(kv).Save(ctx, u))
	return &fixture{kv: kv, shop: sh, eng: eng, sess: &engine.Session{UserID: "u1"}}
}

func (f *fixture) tokens(t *testing.T) int {
	t.Helper()
	u, err := f.eng.CurrentUser(context.Background(), f.sess)
	require.NoError(t, err)
	return u.Tokens
}

func (f *fixture) item(t *testing.T, id string) Item {
	t.Helper()
	items, err := f.shop.Items(context.Background(), f.sess)
	require.NoError(t, err)
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not found", id)
	return Item{}
}

func TestInitCatalogIdempotent(t *testing.T) {
	f := newFixture(t, 0)
	seeded, err := f.shop.InitCatalog(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)

	items, err := f.shop.Items(context.Background(), f.sess)
	require.NoError(t, err)
	assert.Len(t, items, 8)
}

func TestPurchaseSuccess(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()

	rec, err := f.shop.Purchase(ctx, f.sess, "theme-dark")
	require.NoError(t, err)
	assert.False(t, rec.IsActive)
	assert.Equal(t, 60, f.tokens(t))

	it := f.item(t, "theme-dark")
	assert.True(t, it.IsPurchased)
	assert.False(t, it.IsActive)

	_, err = f.shop.Purchase(ctx, f.sess, "theme-dark")
	assert.True(t, engine.IsInvalidState(err))
	assert.Equal(t, 60, f.tokens(t))
}

func TestPurchaseFailuresLeaveStateAlone(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.shop.Purchase(ctx, f.sess, "theme-dark")
	require.Error(t, err)
	assert.True(t, engine.IsInsufficientFunds(err))
	assert.Equal(t, "You need 30 more tokens to purchase this item.", err.Error())

	_, err = f.shop.Purchase(ctx, f.sess, "no-such-item")
	assert.True(t, engine.IsNotFound(err))

	_, err = f.shop.Purchase(ctx, nil, "theme-dark")
	assert.True(t, engine.IsNotFound(err))

	owned, err := f.shop.Owned(ctx, f.sess)
	require.NoError(t, err)
	assert.Empty(t, owned)
	assert.Equal(t, 10, f.tokens(t))
}

func TestLockedItems(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	_, err := f.shop.Purchase(ctx, f.sess, "feature-multiplier")
	require.Error(t, err)
	assert.True(t, engine.IsLocked(err))
	assert.Contains(t, err.Error(), "Reach level 5")

	_, err = f.shop.Purchase(ctx, f.sess, "badge-vip")
	assert.Contains(t, err.Error(), "Complete 20 tasks")

	_, err = f.shop.Purchase(ctx, f.sess, "theme-neon")
	assert.Contains(t, err.Error(), "Unlock 3 badges")
	assert.Equal(t, 1000, f.tokens(t))

	_, err = f.eng.AddXP(ctx, f.sess, 400)
	require.NoError(t, err)
	assert.False(t, f.item(t, "feature-multiplier").IsLocked)
	_, err = f.shop.Purchase(ctx, f.sess, "feature-multiplier")
	require.NoError(t, err)
	assert.Equal(t, 900, f.tokens(t))
}

func TestRequirementMet(t *testing.T) {
	u := &storage.User{Level: 5, CompletedTasks: 19}
	assert.True(t, RequirementMet(nil, u, 0))
	assert.True(t, RequirementMet(&storage.UnlockRequirement{Type: "level", Value: 5}, u, 0))
	assert.False(t, RequirementMet(&storage.UnlockRequirement{Type: "tasks", Value: 20}, u, 0))
	assert.True(t, RequirementMet(&storage.UnlockRequirement{Type: "badges", Value: 3}, u, 3))
	assert.False(t, RequirementMet(&storage.UnlockRequirement{Type: "karma", Value: 1}, u, 99))

	// Without the catalog flag the requirement does not lock.
	it := storage.StoreItem{UnlockRequirement: &storage.UnlockRequirement{Type: "level", Value: 50}}
	assert.False(t, Locked(it, u, 0))
	it.IsLocked = true
	assert.True(t, Locked(it, u, 0))
}

func TestActivateExclusiveThemes(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()
	for _, id := range []string{"theme-dark", "avatar-ninja", "feature-premium-tasks"} {
		_, err := f.shop.Purchase(ctx, f.sess, id)
		require.NoError(t, err)
	}
	// theme-neon is locked; unlock three badges through progression.
	_, err := f.eng.AddXP(ctx, f.sess, 1000)
	require.NoError(t, err)
	_, err = f.eng.CheckTaskBadges(ctx, 1)
	require.NoError(t, err)
	_, err = f.shop.Purchase(ctx, f.sess, "theme-neon")
	require.NoError(t, err)

	ok, err := f.shop.Activate(ctx, f.sess, "theme-dark")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, f.item(t, "theme-dark").IsActive)

	ok, err = f.shop.Activate(ctx, f.sess, "theme-neon")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, f.item(t, "theme-neon").IsActive)
	assert.False(t, f.item(t, "theme-dark").IsActive)
	assert.False(t, f.item(t, "avatar-ninja").IsActive, "other types untouched")

	// Self-toggle turns the active theme off.
	ok, err = f.shop.Activate(ctx, f.sess, "theme-neon")
	require.NoError(t, err)
	require.True(t, ok)
	active, err := f.shop.Active(ctx, f.sess, "theme")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestActivateNonExclusiveFlips(t *testing.T) {
	f := newFixture(t, 200)
	ctx := context.Background()
	_, err := f.shop.Purchase(ctx, f.sess, "feature-premium-tasks")
	require.NoError(t, err)
	_, err = f.shop.Purchase(ctx, f.sess, "feature-task-categories")
	require.NoError(t, err)

	_, err = f.shop.Activate(ctx, f.sess, "feature-premium-tasks")
	require.NoError(t, err)
	_, err = f.shop.Activate(ctx, f.sess, "feature-task-categories")
	require.NoError(t, err)
	assert.True(t, f.item(t, "feature-premium-tasks").IsActive)
	assert.True(t, f.item(t, "feature-task-categories").IsActive)

	_, err = f.shop.Activate(ctx, f.sess, "feature-premium-tasks")
	require.NoError(t, err)
	assert.False(t, f.item(t, "feature-premium-tasks").IsActive)
}

func TestActivateUnknownOrNoUser(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	ok, err := f.shop.Activate(ctx, f.sess, "theme-dark")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.shop.Activate(ctx, nil, "theme-dark")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActivateKeepsOtherUsersRecords(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()
	repo := storage.NewPurchaseRepo(f.kv)
	require.NoError(t, repo.SaveAll(ctx, []storage.PurchasedItem{
		{ID: "p-other", ItemID: "theme-dark", UserID: "u2", IsActive: true},
	}))

	_, err := f.shop.Purchase(ctx, f.sess, "theme-dark")
	require.NoError(t, err)
	_, err = f.shop.Activate(ctx, f.sess, "theme-dark")
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	others, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.True(t, others[0].IsActive)
	assert.True(t, f.item(t, "theme-dark").IsActive)
}

// failingKV fails writes to one key once armed.
type failingKV struct {
	*storage.MemoryKV
	failKey string
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failKey != "" && key == f.failKey {
		return errors.New("disk full")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func newFailingShop(t *testing.T, tokens int) (*failingKV, *Service, *engine.Service) {
	t.Helper()
	ctx := context.Background()
	kv := &failingKV{MemoryKV: storage.NewMemoryKV()}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	eng := engine.NewService(kv, engine.WithClock(clock), engine.WithLocation(time.UTC))
	sh := NewService(kv, WithClock(clock))
	_, err := sh.InitCatalog(ctx)
	require.NoError(t, err)
	require.NoError(t, storage.NewUserRepo(kv).Save(ctx, &storage.User{ID: "u1", Username: "ann", Level: 1, Tokens: tokens}))
	return kv, sh, eng
}

func TestPurchaseFailedChargeLeavesNoRecord(t *testing.T) {
	kv, sh, eng := newFailingShop(t, 100)
	ctx := context.Background()
	sess := &engine.Session{UserID: "u1"}

	kv.failKey = storage.KeyUser
	_, err := sh.Purchase(ctx, sess, "theme-dark")
	require.Error(t, err)

	kv.failKey = ""
	owned, err := sh.Owned(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, owned)
	u, err := eng.CurrentUser(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 100, u.Tokens)

	// A retry succeeds instead of reporting the item as owned.
	_, err = sh.Purchase(ctx, sess, "theme-dark")
	require.NoError(t, err)
	u, err = eng.CurrentUser(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 60, u.Tokens)
}

func TestPurchaseFailedRecordRefunds(t *testing.T) {
	kv, sh, eng := newFailingShop(t, 100)
	ctx := context.Background()
	sess := &engine.Session{UserID: "u1"}

	kv.failKey = storage.KeyPurchases
	_, err := sh.Purchase(ctx, sess, "theme-dark")
	require.Error(t, err)

	kv.failKey = ""
	u, err := eng.CurrentUser(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 100, u.Tokens)
	owned, err := sh.Owned(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestInitCatalogReseedsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	repo := storage.NewCatalogRepo(kv)
	require.NoError(t, repo.SaveAll(ctx, nil))

	seeded, err := NewService(kv).InitCatalog(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
	items, ok, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, items, 8)
}
