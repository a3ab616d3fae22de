package personality

import "context"

// Repository defines the interface for profile data access. The postgres
// implementation encrypts trait values on write and decrypts them on read;
// a value that fails decryption comes back as an empty string rather than
// an error (fail-soft, so crypto detail never leaks to clients).
// GetByUserID returns (nil, nil) when no profile exists.
type Repository interface {
	Create(ctx context.Context, userID int64, traits Traits) (*Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*Profile, error)
}
