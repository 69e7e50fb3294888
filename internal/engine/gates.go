package engine

import (
	"fmt"
	"strings"
)

const (
	MaxTasksPerDay = 10
	MinTaskXP      = 1
	MaxTaskXP      = 100
	MaxTitleLength = 100
)

// ClampXP keeps a task reward within MinTaskXP..MaxTaskXP.
func ClampXP(xp int) int {
	if xp < MinTaskXP {
		return MinTaskXP
	}
	if xp > MaxTaskXP {
		return MaxTaskXP
	}
	return xp
}

// CanCreateTask returns ErrDailyCap once today's creations hit the cap.
func CanCreateTask(createdToday int) error {
	if createdToday >= MaxTasksPerDay {
		return ErrDailyCap
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", InvalidStateError{Reason: "title is required"}
	}
	if len([]rune(t)) > MaxTitleLength {
		return "", InvalidStateError{Reason: fmt.Sprintf("title is longer than %d characters", MaxTitleLength)}
	}
	return t, nil
}
