package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/linkeditem"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/user"
)

type stubTxRepo struct {
	createCalls int
	created     CreateParams
	stored      *Transaction
	updateRes   *Transaction
	deleteErr   error
	listFilter  ListFilter
}

func (s *stubTxRepo) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	s.createCalls++
	s.created = params
	return &Transaction{
		ID:       1,
		UserID:   params.UserID,
		Amount:   params.Amount,
		Currency: params.Currency,
		Type:     params.Type,
		Status:   params.Status,
		Category: params.Category,
	}, nil
}

func (s *stubTxRepo) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	return s.stored, nil
}

func (s *stubTxRepo) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	s.listFilter = filter
	return nil, nil
}

func (s *stubTxRepo) Update(ctx context.Context, id int64, params UpdateParams) (*Transaction, error) {
	return s.updateRes, nil
}

func (s *stubTxRepo) Delete(ctx context.Context, id int64) error {
	return s.deleteErr
}

type stubUserRepo struct {
	u   *user.User
	err error
}

func (s *stubUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	return nil, nil
}
func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.u, s.err
}
func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

type stubItemRepo struct {
	item    *linkeditem.LinkedItem
	account *linkeditem.LinkedAccount
}

func (s *stubItemRepo) CreateWithAccounts(ctx context.Context, params linkeditem.CreateItemParams) (*linkeditem.LinkedItem, error) {
	return nil, nil
}
func (s *stubItemRepo) GetByID(ctx context.Context, id int64) (*linkeditem.LinkedItem, error) {
	return s.item, nil
}
func (s *stubItemRepo) GetByItemRef(ctx context.Context, itemRef string) (*linkeditem.LinkedItem, error) {
	return nil, nil
}
func (s *stubItemRepo) GetByInstitutionID(ctx context.Context, institutionID string) (*linkeditem.LinkedItem, error) {
	return nil, nil
}
func (s *stubItemRepo) GetAccountByID(ctx context.Context, id int64) (*linkeditem.LinkedAccount, error) {
	return s.account, nil
}
func (s *stubItemRepo) ListAccounts(ctx context.Context, itemID int64) ([]*linkeditem.LinkedAccount, error) {
	return nil, nil
}

func validInput() CreateInput {
	return CreateInput{
		UserID:          1,
		LinkedItemID:    2,
		LinkedAccountID: 3,
		Amount:          decimal.NewFromInt(100),
		Currency:        "USD",
		Type:            "expense",
		Status:          "posted",
		Category:        "groceries",
		TransactionDate: time.Now().Add(-time.Hour),
		PostedDate:      time.Now(),
	}
}

func allRefsResolve() (*stubUserRepo, *stubItemRepo) {
	return &stubUserRepo{u: &user.User{ID: 1}},
		&stubItemRepo{
			item:    &linkeditem.LinkedItem{ID: 2},
			account: &linkeditem.LinkedAccount{ID: 3},
		}
}

func TestCreate_Success(t *testing.T) {
	txRepo := &stubTxRepo{}
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(txRepo, userRepo, itemRepo)

	tx, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, 1, txRepo.createCalls)
	assert.Equal(t, TypeExpense, txRepo.created.Type)
	assert.Equal(t, StatusPosted, txRepo.created.Status)
	assert.True(t, txRepo.created.Amount.Equal(decimal.NewFromInt(100)))
}

func TestCreate_NormalizesEnumsCaseInsensitively(t *testing.T) {
	txRepo := &stubTxRepo{}
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(txRepo, userRepo, itemRepo)

	in := validInput()
	in.Type = "EXPENSE"
	in.Status = "Posted"

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, TypeExpense, txRepo.created.Type)
	assert.Equal(t, StatusPosted, txRepo.created.Status)
}

func TestCreate_EmptyStatusDefaultsToPending(t *testing.T) {
	txRepo := &stubTxRepo{}
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(txRepo, userRepo, itemRepo)

	in := validInput()
	in.Status = ""

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, txRepo.created.Status)
}

func TestCreate_CollectsAllFieldErrors(t *testing.T) {
	txRepo := &stubTxRepo{}
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(txRepo, userRepo, itemRepo)

	in := validInput()
	in.Amount = decimal.NewFromInt(0)
	in.Currency = "BRL"
	in.Type = "loan"
	in.Status = "cleared"
	in.Category = ""

	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)

	var fieldErrs ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 5)
	for _, field := range []string{"amount", "currency", "type", "status", "category"} {
		assert.Contains(t, fieldErrs, field)
	}
	assert.Zero(t, txRepo.createCalls, "no write on validation failure")
}

func TestCreate_EnumeratesAllMissingReferences(t *testing.T) {
	txRepo := &stubTxRepo{}
	svc := NewService(txRepo, &stubUserRepo{}, &stubItemRepo{})

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)

	var fieldErrs ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 3)
	for _, field := range []string{"user_id", "item_id", "account_id"} {
		assert.Contains(t, fieldErrs, field)
	}
	assert.Zero(t, txRepo.createCalls)
}

func TestCreate_RepoFailureIsNotValidation(t *testing.T) {
	userRepo := &stubUserRepo{err: errors.New("connection reset")}
	svc := NewService(&stubTxRepo{}, userRepo, &stubItemRepo{})

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)

	var fieldErrs ValidationErrors
	assert.False(t, errors.As(err, &fieldErrs))
}

func TestGet_NotFound(t *testing.T) {
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(&stubTxRepo{}, userRepo, itemRepo)

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_ClampsPagination(t *testing.T) {
	txRepo := &stubTxRepo{}
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(txRepo, userRepo, itemRepo)

	_, err := svc.List(context.Background(), ListFilter{Limit: 5000, Offset: -1})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, txRepo.listFilter.Limit)
	assert.Equal(t, 0, txRepo.listFilter.Offset)
}

func TestUpdate_NotFound(t *testing.T) {
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(&stubTxRepo{}, userRepo, itemRepo)

	_, err := svc.Update(context.Background(), 99, validInput())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_ValidatesFields(t *testing.T) {
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(&stubTxRepo{updateRes: &Transaction{ID: 1}}, userRepo, itemRepo)

	in := validInput()
	in.Amount = decimal.NewFromInt(-10)

	_, err := svc.Update(context.Background(), 1, in)
	var fieldErrs ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "amount")
}

func TestDelete_NotFound(t *testing.T) {
	userRepo, itemRepo := allRefsResolve()
	svc := NewService(&stubTxRepo{deleteErr: ErrNotFound}, userRepo, itemRepo)

	err := svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
