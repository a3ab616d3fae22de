package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service manages onboarding sessions. Expiry is enforced on read: an
// expired session behaves exactly like a missing one.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(repo Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create generates a fresh session with an empty data blob.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	createdAt := s.now().UTC()
	return s.repo.Create(ctx, uuid.New().String(), createdAt, createdAt.Add(s.ttl))
}

// Get returns the session or ErrNotFound for missing and expired ids.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Expired(s.now()) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Patch merges delta into the session's data blob. A missing or expired
// session returns ErrNotFound so callers can tell it apart from success.
func (s *Service) Patch(ctx context.Context, id string, delta map[string]any) (*Session, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.Expired(s.now()) {
		return nil, ErrNotFound
	}

	sess, err := s.repo.Patch(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// PurgeExpired deletes sessions whose TTL has elapsed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
