// Package catalog holds the seed data shipped with the binary: the badge
// catalog with its unlock thresholds and the default store items.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

// Badge threshold kinds.
const (
	KindTasks = "tasks"
	KindLevel = "level"
)

// Store item types.
const (
	ItemTheme   = "theme"
	ItemAvatar  = "avatar"
	ItemBadge   = "badge"
	ItemFeature = "feature"
)

// Unlock requirement types.
const (
	RequireLevel  = "level"
	RequireTasks  = "tasks"
	RequireBadges = "badges"
)

// Exclusive reports whether at most one purchased item of this type may be
// active at a time.
func Exclusive(itemType string) bool {
	return itemType == ItemTheme || itemType == ItemAvatar
}

type BadgeDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Kind        string `yaml:"kind"`
	Threshold   int    `yaml:"threshold"`
}

// ID is the stable badge id derived from the name.
func (d BadgeDef) ID() string { return slug.Make(d.Name) }

// Threshold pairs a counter value with the badge it unlocks.
type Threshold struct {
	Value     int
	BadgeID   string
	BadgeName string
}

//go:embed badges.yaml
var badgesYAML []byte

//go:embed store_items.yaml
var storeItemsYAML []byte

var (
	loadOnce   sync.Once
	badgeDefs  []BadgeDef
	storeItems []storage.StoreItem
	loadErr    error
)

func load() {
	loadOnce.Do(func() {
		badgeDefs, loadErr = ParseBadges(badgesYAML)
		if loadErr != nil {
			return
		}
		storeItems, loadErr = ParseStoreItems(storeItemsYAML)
	})
	if loadErr != nil {
		panic(fmt.Sprintf("catalog: embedded seed data: %v", loadErr))
	}
}

// ParseBadges decodes and validates a badge catalog document.
func ParseBadges(raw []byte) ([]BadgeDef, error) {
	var defs []BadgeDef
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parse badges: %w", err)
	}
	seen := map[string]bool{}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("parse badges: badge without name")
		}
		if d.Kind != KindTasks && d.Kind != KindLevel {
			return nil, fmt.Errorf("parse badges: %s: unknown kind %q", d.Name, d.Kind)
		}
		if d.Threshold <= 0 {
			return nil, fmt.Errorf("parse badges: %s: threshold must be positive", d.Name)
		}
		if seen[d.ID()] {
			return nil, fmt.Errorf("parse badges: duplicate badge %q", d.Name)
		}
		seen[d.ID()] = true
	}
	return defs, nil
}

// ParseStoreItems decodes and validates a store catalog document.
func ParseStoreItems(raw []byte) ([]storage.StoreItem, error) {
	var items []storage.StoreItem
	if err := yaml.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse store items: %w", err)
	}
	seen := map[string]bool{}
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("parse store items: item without id")
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("parse store items: duplicate item %q", it.ID)
		}
		seen[it.ID] = true
		switch it.Type {
		case ItemTheme, ItemAvatar, ItemBadge, ItemFeature:
		default:
			return nil, fmt.Errorf("parse store items: %s: unknown type %q", it.ID, it.Type)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("parse store items: %s: negative price", it.ID)
		}
		if r := it.UnlockRequirement; r != nil {
			switch r.Type {
			case RequireLevel, RequireTasks, RequireBadges:
			default:
				return nil, fmt.Errorf("parse store items: %s: unknown requirement %q", it.ID, r.Type)
			}
		}
	}
	return items, nil
}

// DefaultBadges returns the badge catalog, all locked.
func DefaultBadges() []storage.Badge {
	load()
	out := make([]storage.Badge, 0, len(badgeDefs))
	for _, d := range badgeDefs {
		out = append(out, storage.Badge{
			ID:          d.ID(),
			Name:        d.Name,
			Description: d.Description,
			Icon:        d.Icon,
		})
	}
	return out
}

// DefaultStoreItems returns a fresh copy of the default store catalog.
func DefaultStoreItems() []storage.StoreItem {
	load()
	out := make([]storage.StoreItem, len(storeItems))
	for i, it := range storeItems {
		if it.UnlockRequirement != nil {
			req := *it.UnlockRequirement
			it.UnlockRequirement = &req
		}
		out[i] = it
	}
	return out
}

// TaskThresholds returns the completed-task thresholds, ascending.
func TaskThresholds() []Threshold { return thresholds(KindTasks) }

// LevelThresholds returns the level thresholds, ascending.
func LevelThresholds() []Threshold { return thresholds(KindLevel) }

func thresholds(kind string) []Threshold {
	load()
	var out []Threshold
	for _, d := range badgeDefs {
		if d.Kind == kind {
			out = append(out, Threshold{Value: d.Threshold, BadgeID: d.ID(), BadgeName: d.Name})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
