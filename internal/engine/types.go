package engine

import "time"

// Session identifies the signed-in user for one run of the app. Every player
// operation takes it explicitly.
type Session struct {
	UserID    string
	StartedAt time.Time
}

type NotificationType string

const (
	NotifyLevelUp     NotificationType = "levelUp"
	NotifyBadge       NotificationType = "badge"
	NotifyToken       NotificationType = "token"
	NotifyStreak      NotificationType = "streak"
	NotifyDeadline    NotificationType = "deadline"
	NotifyLeaderboard NotificationType = "leaderboard"
)

type DailyTaskType string

const (
	DailyLogin        DailyTaskType = "login"
	DailyCompleteTask DailyTaskType = "complete_task"
	DailyReachStreak  DailyTaskType = "reach_streak"
)

type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
)

func ParseTaskFilter(s string) (TaskFilter, bool) {
	switch TaskFilter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterActive, FilterCompleted:
		return TaskFilter(s), true
	}
	return "", false
}

type TaskSort string

const (
	SortNewest   TaskSort = "newest"
	SortOldest   TaskSort = "oldest"
	SortXPHigh   TaskSort = "xp-high"
	SortXPLow    TaskSort = "xp-low"
	SortDeadline TaskSort = "deadline"
)

func ParseTaskSort(s string) (TaskSort, bool) {
	switch TaskSort(s) {
	case "":
		return SortNewest, true
	case SortNewest, SortOldest, SortXPHigh, SortXPLow, SortDeadline:
		return TaskSort(s), true
	}
	return "", false
}
