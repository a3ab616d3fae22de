package transaction

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/linkeditem"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/user"
)

// ValidationErrors maps field names to their failure messages. Every
// failing field is collected in one pass; callers get the whole set, not
// just the first failure.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Service enforces the transaction validation and consistency rules on top
// of the repositories.
type Service struct {
	txRepo   Repository
	userRepo user.Repository
	itemRepo linkeditem.Repository
}

func NewService(txRepo Repository, userRepo user.Repository, itemRepo linkeditem.Repository) *Service {
	return &Service{
		txRepo:   txRepo,
		userRepo: userRepo,
		itemRepo: itemRepo,
	}
}

// CreateInput carries raw, not-yet-normalized values from the request.
type CreateInput struct {
	UserID          int64
	LinkedItemID    int64
	LinkedAccountID int64
	Amount          decimal.Decimal
	Currency        string
	Type            string
	Status          string
	Category        string
	MerchantName    *string
	Description     *string
	TransactionDate time.Time
	PostedDate      time.Time
}

// validateFields checks everything that needs no repository access and
// returns the normalized enum values alongside the collected errors.
func validateFields(in CreateInput, errs ValidationErrors) (Type, Status) {
	txType, err := ParseType(in.Type)
	if err != nil {
		errs["type"] = err.Error()
	}
	txStatus, err := ParseStatus(in.Status)
	if err != nil {
		errs["status"] = err.Error()
	}
	if !in.Amount.IsPositive() {
		errs["amount"] = "amount must be greater than zero"
	}
	if !IsValidCurrency(in.Currency) {
		errs["currency"] = "invalid currency code"
	}
	if in.Category == "" {
		errs["category"] = "category is required"
	}
	return txType, txStatus
}

// Create validates the input in a single pass and writes the row only if
// every check passes. All three foreign references must independently
// resolve; any subset failing is reported together.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Transaction, error) {
	errs := ValidationErrors{}
	txType, txStatus := validateFields(in, errs)

	u, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %d: %w", in.UserID, err)
	}
	if u == nil {
		errs["user_id"] = "user not found"
	}

	item, err := s.itemRepo.GetByID(ctx, in.LinkedItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve item %d: %w", in.LinkedItemID, err)
	}
	if item == nil {
		errs["item_id"] = "linked item not found"
	}

	account, err := s.itemRepo.GetAccountByID(ctx, in.LinkedAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %d: %w", in.LinkedAccountID, err)
	}
	if account == nil {
		errs["account_id"] = "linked account not found"
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return s.txRepo.Create(ctx, CreateParams{
		UserID:          in.UserID,
		LinkedItemID:    in.LinkedItemID,
		LinkedAccountID: in.LinkedAccountID,
		Amount:          in.Amount,
		Currency:        in.Currency,
		Type:            txType,
		Status:          txStatus,
		Category:        in.Category,
		MerchantName:    in.MerchantName,
		Description:     in.Description,
		TransactionDate: in.TransactionDate,
		PostedDate:      in.PostedDate,
	})
}

// Get returns the transaction or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	return tx, nil
}

// List applies the conjunctive filters with bounded pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	filter.Normalize()
	return s.txRepo.List(ctx, filter)
}

// Update is a full replace of the mutable fields. Field validation runs
// first; foreign references are immutable and not re-checked.
func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (*Transaction, error) {
	errs := ValidationErrors{}
	txType, txStatus := validateFields(in, errs)
	if len(errs) > 0 {
		return nil, errs
	}

	tx, err := s.txRepo.Update(ctx, id, UpdateParams{
		Amount:          in.Amount,
		Currency:        in.Currency,
		Type:            txType,
		Status:          txStatus,
		Category:        in.Category,
		MerchantName:    in.MerchantName,
		Description:     in.Description,
		TransactionDate: in.TransactionDate,
		PostedDate:      in.PostedDate,
	})
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	return tx, nil
}

// Delete removes the row. Deleting a transaction never cascades.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.txRepo.Delete(ctx, id)
}
