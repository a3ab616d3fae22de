package session

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an onboarding session stays valid after creation.
const DefaultTTL = 7 * 24 * time.Hour

// Session is the ephemeral state bag for a not-yet-identified user moving
// through onboarding. It has no user foreign key: it exists before
// identity is known.
type Session struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Data      map[string]any `json:"data"`
}

// Expired reports whether the session's TTL has elapsed at time now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
