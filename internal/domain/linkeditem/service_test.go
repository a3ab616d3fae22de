package linkeditem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/aggregator"
)

type stubAggregator struct {
	exchangeErr error

	linkTokenCalls    int
	exchangeCalls     int
	transactionsCalls int

	gotAccessToken string
	gotStart       time.Time
	gotEnd         time.Time
}

func (s *stubAggregator) CreateLinkToken(ctx context.Context, userRef string, useRedirect bool) (string, error) {
	s.linkTokenCalls++
	return "link-token", nil
}

func (s *stubAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	s.exchangeCalls++
	if s.exchangeErr != nil {
		return "", "", s.exchangeErr
	}
	return "access-token", "item-ref", nil
}

func (s *stubAggregator) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) (*aggregator.TransactionsResponse, error) {
	s.transactionsCalls++
	s.gotAccessToken = accessToken
	s.gotStart = startDate
	s.gotEnd = endDate
	return &aggregator.TransactionsResponse{}, nil
}

type stubRepo struct {
	byInstitution *LinkedItem
	byItemRef     *LinkedItem
	accounts      []*LinkedAccount
	createErr     error
	createCalls   int
	created       CreateItemParams
}

func (s *stubRepo) CreateWithAccounts(ctx context.Context, params CreateItemParams) (*LinkedItem, error) {
	s.createCalls++
	s.created = params
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &LinkedItem{ID: 1, ItemRef: params.ItemRef}, nil
}

func (s *stubRepo) GetByID(ctx context.Context, id int64) (*LinkedItem, error) { return nil, nil }

func (s *stubRepo) GetByItemRef(ctx context.Context, itemRef string) (*LinkedItem, error) {
	return s.byItemRef, nil
}

func (s *stubRepo) GetByInstitutionID(ctx context.Context, institutionID string) (*LinkedItem, error) {
	return s.byInstitution, nil
}

func (s *stubRepo) GetAccountByID(ctx context.Context, id int64) (*LinkedAccount, error) {
	return nil, nil
}

func (s *stubRepo) ListAccounts(ctx context.Context, itemID int64) ([]*LinkedAccount, error) {
	return s.accounts, nil
}

func exchangeParams() ExchangeParams {
	return ExchangeParams{
		PublicToken:     "public-token",
		InstitutionID:   "ins_1",
		InstitutionName: "Test Bank",
		Accounts: []AccountDescriptor{
			{AccountRef: "acc_1", Name: "Checking", Type: AccountTypeDepository},
		},
	}
}

func TestExchange_Success(t *testing.T) {
	agg := &stubAggregator{}
	repo := &stubRepo{}
	svc := NewService(agg, repo)

	itemRef, err := svc.Exchange(context.Background(), exchangeParams())
	require.NoError(t, err)
	assert.Equal(t, "item-ref", itemRef)
	assert.Equal(t, "access-token", repo.created.AccessToken)
	assert.Equal(t, 1, repo.createCalls)
}

func TestExchange_DuplicateInstitutionRejectedBeforeAggregatorCall(t *testing.T) {
	agg := &stubAggregator{}
	repo := &stubRepo{byInstitution: &LinkedItem{ID: 1, InstitutionID: "ins_1"}}
	svc := NewService(agg, repo)

	_, err := svc.Exchange(context.Background(), exchangeParams())
	require.ErrorIs(t, err, ErrDuplicateInstitution)
	assert.Zero(t, agg.exchangeCalls, "aggregator must not be called for a duplicate institution")
	assert.Zero(t, repo.createCalls)
}

func TestExchange_AggregatorFailurePropagates(t *testing.T) {
	aggErr := &aggregator.Error{StatusCode: 400, Message: "expired"}
	agg := &stubAggregator{exchangeErr: aggErr}
	repo := &stubRepo{}
	svc := NewService(agg, repo)

	_, err := svc.Exchange(context.Background(), exchangeParams())
	var got *aggregator.Error
	require.ErrorAs(t, err, &got)
	assert.Zero(t, repo.createCalls, "no write after a failed exchange")
}

func TestExchange_PersistenceFailureDiscardsCredential(t *testing.T) {
	agg := &stubAggregator{}
	repo := &stubRepo{createErr: errors.New("tx aborted")}
	svc := NewService(agg, repo)

	_, err := svc.Exchange(context.Background(), exchangeParams())
	require.Error(t, err)
	assert.Equal(t, 1, agg.exchangeCalls, "credential is not re-requested")
}

func fixedNow() time.Time {
	return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
}

func storedItemRepo() *stubRepo {
	return &stubRepo{byItemRef: &LinkedItem{ID: 1, ItemRef: "item-ref", AccessToken: "access-token"}}
}

func TestTransactions_DefaultsToLast30Days(t *testing.T) {
	agg := &stubAggregator{}
	svc := NewService(agg, storedItemRepo())
	svc.now = fixedNow

	_, err := svc.Transactions(context.Background(), "item-ref", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "access-token", agg.gotAccessToken)
	assert.Equal(t, fixedNow(), agg.gotEnd)
	assert.Equal(t, fixedNow().Add(-DefaultLookback), agg.gotStart)
}

func TestTransactions_EndBeforeStartRejectedWithoutAggregatorCall(t *testing.T) {
	agg := &stubAggregator{}
	svc := NewService(agg, storedItemRepo())
	svc.now = fixedNow

	start := fixedNow().Add(-24 * time.Hour)
	end := fixedNow().Add(-48 * time.Hour)
	_, err := svc.Transactions(context.Background(), "item-ref", &start, &end)
	require.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Zero(t, agg.transactionsCalls)
}

func TestTransactions_FutureBoundsRejectedWithoutAggregatorCall(t *testing.T) {
	future := fixedNow().Add(24 * time.Hour)
	past := fixedNow().Add(-24 * time.Hour)

	tests := []struct {
		name       string
		start, end *time.Time
	}{
		{"future start", &future, nil},
		{"future end", &past, &future},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &stubAggregator{}
			svc := NewService(agg, storedItemRepo())
			svc.now = fixedNow

			_, err := svc.Transactions(context.Background(), "item-ref", tt.start, tt.end)
			require.ErrorIs(t, err, ErrInvalidDateRange)
			assert.Zero(t, agg.transactionsCalls)
		})
	}
}

func TestTransactions_UnknownItem(t *testing.T) {
	agg := &stubAggregator{}
	svc := NewService(agg, &stubRepo{})
	svc.now = fixedNow

	_, err := svc.Transactions(context.Background(), "nope", nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, agg.transactionsCalls)
}

func TestAccountDescriptor_Validate(t *testing.T) {
	valid := AccountDescriptor{AccountRef: "acc_1", Name: "Checking", Type: AccountTypeDepository}
	assert.NoError(t, valid.Validate())

	missingRef := valid
	missingRef.AccountRef = ""
	assert.Error(t, missingRef.Validate())

	badType := valid
	badType.Type = "castle"
	assert.ErrorIs(t, badType.Validate(), ErrInvalidAccountType)
}

func TestAccounts_ReturnsStored(t *testing.T) {
	repo := storedItemRepo()
	repo.accounts = []*LinkedAccount{
		{ID: 10, LinkedItemID: 1, AccountRef: "acc_1", Name: "Checking", Type: AccountTypeDepository},
		{ID: 11, LinkedItemID: 1, AccountRef: "acc_2", Name: "Savings", Type: AccountTypeDepository},
	}
	svc := NewService(&stubAggregator{}, repo)

	accounts, err := svc.Accounts(context.Background(), "item-ref")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc_1", accounts[0].AccountRef)
}

func TestAccounts_UnknownItem(t *testing.T) {
	svc := NewService(&stubAggregator{}, &stubRepo{})

	_, err := svc.Accounts(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}
