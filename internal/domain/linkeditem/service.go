package linkeditem

import (
	"context"
	"fmt"
	"time"

	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/aggregator"
)

// DefaultLookback is the transaction fetch window used when the caller
// gives no date range.
const DefaultLookback = 30 * 24 * time.Hour

// Service coordinates the aggregator linking flow: token exchange,
// duplicate-institution rejection, and transaction retrieval.
type Service struct {
	client aggregator.Client
	repo   Repository
	now    func() time.Time
}

func NewService(client aggregator.Client, repo Repository) *Service {
	return &Service{
		client: client,
		repo:   repo,
		now:    time.Now,
	}
}

// CreateLinkToken starts a link session for the given user reference.
func (s *Service) CreateLinkToken(ctx context.Context, userRef string, useRedirect bool) (string, error) {
	return s.client.CreateLinkToken(ctx, userRef, useRedirect)
}

// ExchangeParams is the input to a token exchange.
type ExchangeParams struct {
	PublicToken     string
	InstitutionID   string
	InstitutionName string
	Accounts        []AccountDescriptor
}

// Exchange swaps the temporary token for a durable credential and persists
// the item together with its accounts atomically. The duplicate-institution
// check runs before the aggregator is called so a rejected exchange has no
// external side effects; the storage-level unique constraint remains the
// final authority under concurrent exchanges.
func (s *Service) Exchange(ctx context.Context, params ExchangeParams) (string, error) {
	existing, err := s.repo.GetByInstitutionID(ctx, params.InstitutionID)
	if err != nil {
		return "", fmt.Errorf("failed to check institution %s: %w", params.InstitutionID, err)
	}
	if existing != nil {
		return "", fmt.Errorf("%w: %s", ErrDuplicateInstitution, params.InstitutionName)
	}

	accessToken, itemRef, err := s.client.ExchangePublicToken(ctx, params.PublicToken)
	if err != nil {
		return "", err
	}

	// A persistence failure here rolls back the whole write; the
	// aggregator-issued credential is discarded, not retried.
	item, err := s.repo.CreateWithAccounts(ctx, CreateItemParams{
		ItemRef:         itemRef,
		AccessToken:     accessToken,
		InstitutionID:   params.InstitutionID,
		InstitutionName: params.InstitutionName,
		Accounts:        params.Accounts,
	})
	if err != nil {
		return "", err
	}

	return item.ItemRef, nil
}

// Accounts returns the stored accounts for itemRef, or ErrNotFound when no
// such item is linked.
func (s *Service) Accounts(ctx context.Context, itemRef string) ([]*LinkedAccount, error) {
	item, err := s.repo.GetByItemRef(ctx, itemRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve item %s: %w", itemRef, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return s.repo.ListAccounts(ctx, item.ID)
}

// Transactions resolves the stored credential for itemRef and fetches
// transactions over [start, end]. Nil bounds default to the last 30 days.
// Range validation happens before any aggregator call.
func (s *Service) Transactions(ctx context.Context, itemRef string, start, end *time.Time) (*aggregator.TransactionsResponse, error) {
	now := s.now()

	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidDateRange)
	}
	if (start != nil && start.After(now)) || (end != nil && end.After(now)) {
		return nil, fmt.Errorf("%w: cannot request transactions for future dates", ErrInvalidDateRange)
	}

	item, err := s.repo.GetByItemRef(ctx, itemRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve item %s: %w", itemRef, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}

	startDate := now.Add(-DefaultLookback)
	endDate := now
	if start != nil {
		startDate = *start
	}
	if end != nil {
		endDate = *end
	}

	return s.client.GetTransactions(ctx, item.AccessToken, startDate, endDate)
}
