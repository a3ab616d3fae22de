package linkeditem

import "context"

// Repository defines the interface for linked item data access.
// Get* methods return (nil, nil) when the row does not exist.
type Repository interface {
	// CreateWithAccounts inserts the item and all of its accounts in one
	// database transaction; either everything is written or nothing is.
	// A unique violation on the institution id surfaces as
	// ErrDuplicateInstitution.
	CreateWithAccounts(ctx context.Context, params CreateItemParams) (*LinkedItem, error)
	GetByID(ctx context.Context, id int64) (*LinkedItem, error)
	GetByItemRef(ctx context.Context, itemRef string) (*LinkedItem, error)
	GetByInstitutionID(ctx context.Context, institutionID string) (*LinkedItem, error)
	GetAccountByID(ctx context.Context, id int64) (*LinkedAccount, error)
	ListAccounts(ctx context.Context, itemID int64) ([]*LinkedAccount, error)
}
