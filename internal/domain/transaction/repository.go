package transaction

import "context"

// Repository defines the interface for transaction data access.
// GetByID and Update return (nil, nil) when the row does not exist;
// Delete returns ErrNotFound.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Transaction, error)
	Delete(ctx context.Context, id int64) error
}
