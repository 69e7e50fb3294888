// Package session signs users in through an identity provider and runs the
// session-start pipeline (daily tasks, login reward, deadline reminders).
package session

import (
	"context"
	"fmt"
	"strings"
)

// Profile is what an identity provider vouches for.
type Profile struct {
	ID        string
	Username  string
	AvatarURL string
}

type IdentityProvider interface {
	Authenticate(ctx context.Context, credential string) (*Profile, error)
}

// AuthError is returned when a credential cannot be verified.
type AuthError struct {
	Reason string
	Err    error
}

func (e AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e AuthError) Unwrap() error { return e.Err }

// LocalProvider trusts a configured profile. The credential, when given,
// overrides the username.
type LocalProvider struct {
	Profile Profile
}

func (p LocalProvider) Authenticate(_ context.Context, credential string) (*Profile, error) {
	prof := p.Profile
	if strings.TrimSpace(prof.ID) == "" {
		return nil, AuthError{Reason: "local profile has no id"}
	}
	if name := strings.TrimSpace(credential); name != "" {
		prof.Username = name
	}
	if prof.Username == "" {
		prof.Username = prof.ID
	}
	if prof.AvatarURL == "" {
		prof.AvatarURL = defaultAvatar(prof.ID)
	}
	return &prof, nil
}

func defaultAvatar(seed string) string {
	return "https://i.pravatar.cc/150?u=" + seed
}
