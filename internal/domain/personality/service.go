package personality

import (
	"context"
	"fmt"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/user"
)

// Service enforces the one-profile-per-user rule.
type Service struct {
	repo     Repository
	userRepo user.Repository
}

func NewService(repo Repository, userRepo user.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

// Create stores a new profile for userID. A second creation attempt for
// the same user fails with ErrAlreadyExists; there is no upsert.
func (s *Service) Create(ctx context.Context, userID int64, traits Traits) (*Profile, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}
	if u == nil {
		return nil, user.ErrNotFound
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}

	return s.repo.Create(ctx, userID, traits)
}

// Get returns the decrypted profile for userID or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID int64) (*Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}
