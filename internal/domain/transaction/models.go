package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNotFound        = errors.New("transaction not found")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidStatus   = errors.New("invalid transaction status")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Type classifies the direction of a transaction.
type Type string

const (
	TypeIncome     Type = "income"
	TypeExpense    Type = "expense"
	TypeInvestment Type = "investment"
	TypeTransfer   Type = "transfer"
)

// Status tracks whether a transaction has settled.
type Status string

const (
	StatusPending Status = "pending"
	StatusPosted  Status = "posted"
)

var validCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "CAD": {}, "AUD": {}, "JPY": {},
}

// ParseType normalizes input case-insensitively before the enum lookup.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(s)) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	case TypeInvestment:
		return TypeInvestment, nil
	case TypeTransfer:
		return TypeTransfer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// ParseStatus normalizes input case-insensitively before the enum lookup.
// Empty input defaults to pending.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusPending, "":
		return StatusPending, nil
	case StatusPosted:
		return StatusPosted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsValidCurrency reports whether c is in the currency allow-list.
func IsValidCurrency(c string) bool {
	_, ok := validCurrencies[c]
	return ok
}

// Transaction represents one financial event. It references the owning
// user, linked item, and linked account by row id; deleting a transaction
// never cascades to any of them.
type Transaction struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	LinkedItemID    int64           `json:"item_id"`
	LinkedAccountID int64           `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Type            Type            `json:"type"`
	Status          Status          `json:"status"`
	Category        string          `json:"category"`
	MerchantName    *string         `json:"merchant_name,omitempty"`
	Description     *string         `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	PostedDate      time.Time       `json:"posted_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateParams carries already-normalized values; enum parsing happens in
// the validation layer before this struct is built.
type CreateParams struct {
	UserID          int64
	LinkedItemID    int64
	LinkedAccountID int64
	Amount          decimal.Decimal
	Currency        string
	Type            Type
	Status          Status
	Category        string
	MerchantName    *string
	Description     *string
	TransactionDate time.Time
	PostedDate      time.Time
}

// UpdateParams is a full replace of the mutable fields.
type UpdateParams struct {
	Amount          decimal.Decimal
	Currency        string
	Type            Type
	Status          Status
	Category        string
	MerchantName    *string
	Description     *string
	TransactionDate time.Time
	PostedDate      time.Time
}

// ListFilter composes conjunctively; zero values mean "no constraint".
// Date bounds are inclusive.
type ListFilter struct {
	Status    Status
	Type      Type
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

// MaxPageSize bounds the list page size.
const MaxPageSize = 100

// Normalize clamps pagination to sane bounds.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
