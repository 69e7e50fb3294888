package engine

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when the current user, a task or a store item
// does not exist. Kind is "user", "task", "item" or "notification".
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	if e.Kind == "user" && e.ID == "" {
		return "no current user; log in first"
	}
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidStateError reports an operation the current state does not allow,
// such as completing a task twice.
type InvalidStateError struct {
	Reason string
}

func (e InvalidStateError) Error() string { return e.Reason }

// LockedError is returned when a store item's unlock requirement is unmet.
type LockedError struct {
	ItemID      string
	Requirement string
	Value       int
}

func (e LockedError) Error() string {
	switch e.Requirement {
	case "level":
		return fmt.Sprintf("This item is currently locked. Reach level %d to unlock.", e.Value)
	case "tasks":
		return fmt.Sprintf("This item is currently locked. Complete %d tasks to unlock.", e.Value)
	case "badges":
		return fmt.Sprintf("This item is currently locked. Unlock %d badges to unlock.", e.Value)
	default:
		return "This item is currently locked."
	}
}

type InsufficientFundsError struct {
	Need int
	Have int
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("You need %d more tokens to purchase this item.", e.Need-e.Have)
}

var (
	ErrAlreadyCompleted   = InvalidStateError{Reason: "task is already completed"}
	ErrCompletedImmutable = InvalidStateError{Reason: "completed tasks cannot be changed"}
	ErrDailyCap           = InvalidStateError{Reason: fmt.Sprintf("you can only create %d tasks per day", MaxTasksPerDay)}
)

func errNoUser() error { return NotFoundError{Kind: "user"} }

func IsNotFound(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}

func IsInvalidState(err error) bool {
	var e InvalidStateError
	return errors.As(err, &e)
}

func IsLocked(err error) bool {
	var e LockedError
	return errors.As(err, &e)
}

func IsInsufficientFunds(err error) bool {
	var e InsufficientFundsError
	return errors.As(err, &e)
}
