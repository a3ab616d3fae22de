package linkeditem

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors
var (
	ErrNotFound             = errors.New("linked item not found")
	ErrDuplicateInstitution = errors.New("institution already linked")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidDateRange     = errors.New("invalid date range")
)

// AccountType is the aggregator's account classification.
type AccountType string

const (
	AccountTypeDepository AccountType = "depository"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// ParseAccountType normalizes input case-insensitively before the enum lookup.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToLower(s)) {
	case AccountTypeDepository:
		return AccountTypeDepository, nil
	case AccountTypeCredit:
		return AccountTypeCredit, nil
	case AccountTypeLoan:
		return AccountTypeLoan, nil
	case AccountTypeInvestment:
		return AccountTypeInvestment, nil
	case AccountTypeOther:
		return AccountTypeOther, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}
}

// LinkedItem is one connected financial institution. The access token is
// the durable aggregator credential; it is stored encrypted and never
// serialized into responses.
type LinkedItem struct {
	ID              int64     `json:"id"`
	ItemRef         string    `json:"item_id"`
	AccessToken     string    `json:"-"`
	InstitutionID   string    `json:"institution_id"`
	InstitutionName string    `json:"institution_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LinkedAccount is one account under a LinkedItem. Its lifecycle is bound
// to the parent item (cascade delete).
type LinkedAccount struct {
	ID           int64       `json:"id"`
	LinkedItemID int64       `json:"item_id"`
	AccountRef   string      `json:"account_id"`
	Name         string      `json:"name"`
	OfficialName *string     `json:"official_name,omitempty"`
	Type         AccountType `json:"type"`
	Subtype      *string     `json:"subtype,omitempty"`
	Mask         *string     `json:"mask,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// AccountDescriptor is the client-supplied account metadata that arrives
// with a token exchange.
type AccountDescriptor struct {
	AccountRef   string
	Name         string
	OfficialName *string
	Type         AccountType
	Subtype      *string
	Mask         *string
}

func (d AccountDescriptor) Validate() error {
	if d.AccountRef == "" {
		return errors.New("account id is required")
	}
	if d.Name == "" {
		return errors.New("account name is required")
	}
	if _, err := ParseAccountType(string(d.Type)); err != nil {
		return err
	}
	return nil
}

// CreateItemParams holds everything written in the single atomic
// item-plus-accounts insert.
type CreateItemParams struct {
	ItemRef         string
	AccessToken     string
	InstitutionID   string
	InstitutionName string
	Accounts        []AccountDescriptor
}
