package aggregator

import (
	"context"
	"time"
)

// Client defines the three operations the backend needs from the
// financial-data aggregator.
type Client interface {
	CreateLinkToken(ctx context.Context, userRef string, useRedirect bool) (string, error)
	// ExchangePublicToken returns (accessToken, itemRef, error).
	ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error)
	GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) (*TransactionsResponse, error)
}
