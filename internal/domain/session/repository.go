package session

import (
	"context"
	"time"
)

// Repository defines the interface for onboarding session data access.
// Get and Patch return (nil, nil) when no session exists with the id.
type Repository interface {
	Create(ctx context.Context, id string, createdAt, expiresAt time.Time) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// Patch shallow-merges delta into the stored data blob.
	Patch(ctx context.Context, id string, delta map[string]any) (*Session, error)
	// DeleteExpired removes sessions whose expiry is before now and
	// returns how many rows were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
