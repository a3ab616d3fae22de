package http

import (
	"context"
	"time"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/linkeditem"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/personality"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/session"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/transaction"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/user"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/aggregator"
)

type mockUserRepo struct {
	getByID func(ctx context.Context, id int64) (*user.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

type mockItemRepo struct {
	createWithAccounts func(ctx context.Context, params linkeditem.CreateItemParams) (*linkeditem.LinkedItem, error)
	getByID            func(ctx context.Context, id int64) (*linkeditem.LinkedItem, error)
	getByItemRef       func(ctx context.Context, itemRef string) (*linkeditem.LinkedItem, error)
	getByInstitutionID func(ctx context.Context, institutionID string) (*linkeditem.LinkedItem, error)
	getAccountByID     func(ctx context.Context, id int64) (*linkeditem.LinkedAccount, error)
	listAccounts       func(ctx context.Context, itemID int64) ([]*linkeditem.LinkedAccount, error)
}

func (m *mockItemRepo) CreateWithAccounts(ctx context.Context, params linkeditem.CreateItemParams) (*linkeditem.LinkedItem, error) {
	if m.createWithAccounts != nil {
		return m.createWithAccounts(ctx, params)
	}
	return nil, nil
}

func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*linkeditem.LinkedItem, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, nil
}

func (m *mockItemRepo) GetByItemRef(ctx context.Context, itemRef string) (*linkeditem.LinkedItem, error) {
	if m.getByItemRef != nil {
		return m.getByItemRef(ctx, itemRef)
	}
	return nil, nil
}

func (m *mockItemRepo) GetByInstitutionID(ctx context.Context, institutionID string) (*linkeditem.LinkedItem, error) {
	if m.getByInstitutionID != nil {
		return m.getByInstitutionID(ctx, institutionID)
	}
	return nil, nil
}

func (m *mockItemRepo) GetAccountByID(ctx context.Context, id int64) (*linkeditem.LinkedAccount, error) {
	if m.getAccountByID != nil {
		return m.getAccountByID(ctx, id)
	}
	return nil, nil
}

func (m *mockItemRepo) ListAccounts(ctx context.Context, itemID int64) ([]*linkeditem.LinkedAccount, error) {
	if m.listAccounts != nil {
		return m.listAccounts(ctx, itemID)
	}
	return nil, nil
}

type mockTransactionRepo struct {
	create  func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	getByID func(ctx context.Context, id int64) (*transaction.Transaction, error)
	list    func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	update  func(ctx context.Context, id int64, params transaction.UpdateParams) (*transaction.Transaction, error)
	delete  func(ctx context.Context, id int64) error
}

func (m *mockTransactionRepo) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if m.create != nil {
		return m.create(ctx, params)
	}
	return nil, nil
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	if m.list != nil {
		return m.list(ctx, filter)
	}
	return nil, nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, id int64, params transaction.UpdateParams) (*transaction.Transaction, error) {
	if m.update != nil {
		return m.update(ctx, id, params)
	}
	return nil, nil
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id int64) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return nil
}

type mockPersonalityRepo struct {
	create      func(ctx context.Context, userID int64, traits personality.Traits) (*personality.Profile, error)
	getByUserID func(ctx context.Context, userID int64) (*personality.Profile, error)
}

func (m *mockPersonalityRepo) Create(ctx context.Context, userID int64, traits personality.Traits) (*personality.Profile, error) {
	if m.create != nil {
		return m.create(ctx, userID, traits)
	}
	return nil, nil
}

func (m *mockPersonalityRepo) GetByUserID(ctx context.Context, userID int64) (*personality.Profile, error) {
	if m.getByUserID != nil {
		return m.getByUserID(ctx, userID)
	}
	return nil, nil
}

type mockSessionRepo struct {
	create        func(ctx context.Context, id string, createdAt, expiresAt time.Time) (*session.Session, error)
	get           func(ctx context.Context, id string) (*session.Session, error)
	patch         func(ctx context.Context, id string, delta map[string]any) (*session.Session, error)
	deleteExpired func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, id string, createdAt, expiresAt time.Time) (*session.Session, error) {
	if m.create != nil {
		return m.create(ctx, id, createdAt, expiresAt)
	}
	return &session.Session{ID: id, CreatedAt: createdAt, ExpiresAt: expiresAt, Data: map[string]any{}}, nil
}

func (m *mockSessionRepo) Get(ctx context.Context, id string) (*session.Session, error) {
	if m.get != nil {
		return m.get(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) Patch(ctx context.Context, id string, delta map[string]any) (*session.Session, error) {
	if m.patch != nil {
		return m.patch(ctx, id, delta)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpired != nil {
		return m.deleteExpired(ctx, now)
	}
	return 0, nil
}

// mockAggregator counts invocations so tests can assert that rejected
// requests never reach the aggregator.
type mockAggregator struct {
	createLinkTokenFn     func(ctx context.Context, userRef string, useRedirect bool) (string, error)
	exchangePublicTokenFn func(ctx context.Context, publicToken string) (string, string, error)
	getTransactionsFn     func(ctx context.Context, accessToken string, startDate, endDate time.Time) (*aggregator.TransactionsResponse, error)

	createLinkTokenCalls     int
	exchangePublicTokenCalls int
	getTransactionsCalls     int
}

func (m *mockAggregator) CreateLinkToken(ctx context.Context, userRef string, useRedirect bool) (string, error) {
	m.createLinkTokenCalls++
	if m.createLinkTokenFn != nil {
		return m.createLinkTokenFn(ctx, userRef, useRedirect)
	}
	return "link-token-test", nil
}

func (m *mockAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	m.exchangePublicTokenCalls++
	if m.exchangePublicTokenFn != nil {
		return m.exchangePublicTokenFn(ctx, publicToken)
	}
	return "access-token-test", "item-ref-test", nil
}

func (m *mockAggregator) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) (*aggregator.TransactionsResponse, error) {
	m.getTransactionsCalls++
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(ctx, accessToken, startDate, endDate)
	}
	return &aggregator.TransactionsResponse{}, nil
}
