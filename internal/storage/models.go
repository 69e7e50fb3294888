package storage

import "time"

type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	AvatarURL        string     `json:"avatarUrl,omitempty"`
	XP               int        `json:"xp"`
	Level            int        `json:"level"`
	CompletedTasks   int        `json:"completedTasks"`
	Tokens           int        `json:"tokens"`
	LastDailyLogin   *time.Time `json:"lastDailyLogin,omitempty"`
	DailyLoginStreak int        `json:"dailyLoginStreak"`
	DailyCreations   int        `json:"dailyCreations,omitempty"`
	LastCreationAt   *time.Time `json:"lastCreationAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLoginAt      time.Time  `json:"lastLoginAt"`
}

type Task struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Completed        bool       `json:"completed"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	DeadlineNotified bool       `json:"deadlineNotified,omitempty"`
	XPReward         int        `json:"xpReward"`
	TokenReward      int        `json:"tokenReward"`
}

type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

func (b Badge) Unlocked() bool { return b.UnlockedAt != nil }

type DailyTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TokenReward int        `json:"tokenReward"`
	Type        string     `json:"type"`
	Requirement int        `json:"requirement"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	ExpiresAt   time.Time  `json:"expiresAt"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type UnlockRequirement struct {
	Type  string `json:"type" yaml:"type"`
	Value int    `json:"value" yaml:"value"`
}

type StoreItem struct {
	ID                string             `json:"id" yaml:"id"`
	Title             string             `json:"title" yaml:"title"`
	Description       string             `json:"description" yaml:"description"`
	Price             int                `json:"price" yaml:"price"`
	Type              string             `json:"type" yaml:"type"`
	IconURL           string             `json:"iconUrl" yaml:"icon_url"`
	IsLocked          bool               `json:"isLocked" yaml:"locked"`
	UnlockRequirement *UnlockRequirement `json:"unlockRequirement,omitempty" yaml:"unlock_requirement"`
}

type PurchasedItem struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"itemId"`
	UserID      string    `json:"userId"`
	PurchasedAt time.Time `json:"purchasedAt"`
	IsActive    bool      `json:"isActive"`
}
