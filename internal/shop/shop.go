// Package shop sells catalog items for tokens and tracks which of a user's
// purchases are active.
package shop

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/m4l0n6/task-quest-gamify/internal/catalog"
	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/logger"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

type Service struct {
	users     *storage.UserRepo
	badges    *storage.BadgeRepo
	catalog   *storage.CatalogRepo
	purchases *storage.PurchaseRepo

	clock clockwork.Clock
	log   *logger.Logger
}

type Option func(*Service)

func WithClock(c clockwork.Clock) Option { return func(s *Service) { s.clock = c } }
func WithLogger(l *logger.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(kv storage.KV, opts ...Option) *Service {
	s := &Service{
		users:     storage.NewUserRepo(kv),
		badges:    storage.NewBadgeRepo(kv),
		catalog:   storage.NewCatalogRepo(kv),
		purchases: storage.NewPurchaseRepo(kv),
		clock:     clockwork.NewRealClock(),
		log:       logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Item is a catalog entry with the current user's purchase and lock state.
type Item struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Description       string                     `json:"description"`
	Price             int                        `json:"price"`
	Type              string                     `json:"type"`
	IconURL           string                     `json:"iconUrl"`
	UnlockRequirement *storage.UnlockRequirement `json:"unlockRequirement,omitempty"`
	IsPurchased       bool                       `json:"isPurchased"`
	IsLocked          bool                       `json:"isLocked"`
	IsActive          bool                       `json:"isActive"`
}

// InitCatalog seeds the default catalog if none, or an empty one, is stored.
func (s *Service) InitCatalog(ctx context.Context) (bool, error) {
	items, ok, err := s.catalog.ListAll(ctx)
	if err != nil {
		return false, err
	}
	if ok && len(items) > 0 {
		return false, nil
	}
	return true, s.catalog.SaveAll(ctx, catalog.DefaultStoreItems())
}

// RequirementMet reports whether u satisfies req. A nil requirement is met.
func RequirementMet(req *storage.UnlockRequirement, u *storage.User, unlockedBadges int) bool {
	if req == nil {
		return true
	}
	switch req.Type {
	case catalog.RequireLevel:
		return u.Level >= req.Value
	case catalog.RequireTasks:
		return u.CompletedTasks >= req.Value
	case catalog.RequireBadges:
		return unlockedBadges >= req.Value
	}
	return false
}

// Locked applies the catalog lock flag against the user's progress.
func Locked(it storage.StoreItem, u *storage.User, unlockedBadges int) bool {
	return it.IsLocked && it.UnlockRequirement != nil && !RequirementMet(it.UnlockRequirement, u, unlockedBadges)
}

// DeriveItems joins the catalog with the user's purchases.
func DeriveItems(items []storage.StoreItem, owned []storage.PurchasedItem, u *storage.User, unlockedBadges int) []Item {
	byItem := make(map[string]storage.PurchasedItem, len(owned))
	for _, p := range owned {
		if p.UserID == u.ID {
			byItem[p.ItemID] = p
		}
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		p, purchased := byItem[it.ID]
		out = append(out, Item{
			ID:                it.ID,
			Title:             it.Title,
			Description:       it.Description,
			Price:             it.Price,
			Type:              it.Type,
			IconURL:           it.IconURL,
			UnlockRequirement: it.UnlockRequirement,
			IsPurchased:       purchased,
			IsLocked:          Locked(it, u, unlockedBadges),
			IsActive:          purchased && p.IsActive,
		})
	}
	return out
}

func (s *Service) currentUser(ctx context.Context, sess *engine.Session) (*storage.User, error) {
	if sess == nil {
		return nil, engine.NotFoundError{Kind: "user"}
	}
	u, err := s.users.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil || u.ID != sess.UserID {
		return nil, engine.NotFoundError{Kind: "user"}
	}
	u.Level = engine.Level(u.XP)
	return u, nil
}

// Items lists the catalog as seen by the current user.
func (s *Service) Items(ctx context.Context, sess *engine.Session) ([]Item, error) {
	u, err := s.currentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	items, _, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := s.purchases.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badges.CountUnlocked(ctx)
	if err != nil {
		return nil, err
	}
	return DeriveItems(items, owned, u, badges), nil
}

// Purchase buys itemID for the current user. On any failure nothing is
// written. The new item starts inactive.
func (s *Service) Purchase(ctx context.Context, sess *engine.Session, itemID string) (*storage.PurchasedItem, error) {
	u, err := s.currentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	item, err := s.catalog.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, engine.NotFoundError{Kind: "item", ID: itemID}
	}

	all, err := s.purchases.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.UserID == u.ID && p.ItemID == itemID {
			return nil, engine.InvalidStateError{Reason: "You already own this item."}
		}
	}

	badges, err := s.badges.CountUnlocked(ctx)
	if err != nil {
		return nil, err
	}
	if Locked(*item, u, badges) {
		req := item.UnlockRequirement
		return nil, engine.LockedError{ItemID: itemID, Requirement: req.Type, Value: req.Value}
	}
	if u.Tokens < item.Price {
		return nil, engine.InsufficientFundsError{Need: item.Price, Have: u.Tokens}
	}

	rec := storage.PurchasedItem{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		UserID:      u.ID,
		PurchasedAt: s.clock.Now(),
	}
	// Charge first; a failed record write refunds, so a failed purchase
	// leaves neither a record nor a changed balance.
	balance := u.Tokens
	u.Tokens -= item.Price
	if err := s.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("charge purchase %s: %w", itemID, err)
	}
	if err := s.purchases.SaveAll(ctx, append(all, rec)); err != nil {
		u.Tokens = balance
		if rerr := s.users.Save(ctx, u); rerr != nil {
			s.log.Error("refund failed", "user_id", u.ID, "item", itemID, "error", rerr)
		}
		return nil, fmt.Errorf("record purchase %s: %w", itemID, err)
	}
	s.log.Info("item purchased", "user_id", u.ID, "item", itemID, "price", item.Price)
	return &rec, nil
}

// Activate toggles a purchased item. Themes and avatars are exclusive per
// type: activating one deactivates its siblings, and activating the active
// one turns it off. It returns false when there is no user or the item was
// never bought.
func (s *Service) Activate(ctx context.Context, sess *engine.Session, itemID string) (bool, error) {
	u, err := s.currentUser(ctx, sess)
	if engine.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	all, err := s.purchases.ListAll(ctx)
	if err != nil {
		return false, err
	}
	var mine, others []storage.PurchasedItem
	for _, p := range all {
		if p.UserID == u.ID {
			mine = append(mine, p)
		} else {
			others = append(others, p)
		}
	}
	target := -1
	for i := range mine {
		if mine[i].ItemID == itemID {
			target = i
			break
		}
	}
	if target < 0 {
		return false, nil
	}

	items, _, err := s.catalog.ListAll(ctx)
	if err != nil {
		return false, err
	}
	types := make(map[string]string, len(items))
	for _, it := range items {
		types[it.ID] = it.Type
	}

	typ := types[itemID]
	if catalog.Exclusive(typ) {
		turnOn := !mine[target].IsActive
		for i := range mine {
			if types[mine[i].ItemID] == typ {
				mine[i].IsActive = turnOn && i == target
			}
		}
	} else {
		mine[target].IsActive = !mine[target].IsActive
	}

	if err := s.purchases.SaveAll(ctx, append(others, mine...)); err != nil {
		return false, err
	}
	s.log.Info("item toggled", "user_id", u.ID, "item", itemID, "active", mine[target].IsActive)
	return true, nil
}

// Owned returns the current user's purchases.
func (s *Service) Owned(ctx context.Context, sess *engine.Session) ([]storage.PurchasedItem, error) {
	u, err := s.currentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.purchases.ListByUser(ctx, u.ID)
}

// Active returns the active item of typ, or nil.
func (s *Service) Active(ctx context.Context, sess *engine.Session, typ string) (*Item, error) {
	items, err := s.Items(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Type == typ && items[i].IsActive {
			return &items[i], nil
		}
	}
	return nil, nil
}
