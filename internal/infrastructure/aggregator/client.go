package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout    = 60 * time.Second
	linkTokenPath     = "/link/token/create"
	exchangeTokenPath = "/item/public_token/exchange"
	transactionsPath  = "/transactions/get"
)

// Error is an aggregator-originated failure. It carries the upstream
// message so handlers can surface it distinctly from internal errors.
type Error struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"error_message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("aggregator error (status %d): %s - %s", e.StatusCode, e.ErrorCode, e.Message)
}

// Config holds the credentials and environment for the aggregator API.
type Config struct {
	ClientID    string
	Secret      string
	BaseURL     string // e.g. https://sandbox.plaid.com
	ClientName  string
	RedirectURI string
}

// HTTPClient handles communication with the aggregator API.
type HTTPClient struct {
	httpClient *http.Client
	cfg        Config
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewClient creates a new aggregator API client.
func NewClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		cfg:        cfg,
	}
}

// Account is an account as reported by the aggregator.
type Account struct {
	AccountID    string  `json:"account_id"`
	Name         string  `json:"name"`
	OfficialName *string `json:"official_name,omitempty"`
	Type         string  `json:"type"`
	Subtype      *string `json:"subtype,omitempty"`
	Mask         *string `json:"mask,omitempty"`
}

// Transaction is a transaction as reported by the aggregator.
type Transaction struct {
	TransactionID string   `json:"transaction_id"`
	AccountID     string   `json:"account_id"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"iso_currency_code"`
	Date          string   `json:"date"` // YYYY-MM-DD
	Name          string   `json:"name"`
	MerchantName  *string  `json:"merchant_name,omitempty"`
	Category      []string `json:"category,omitempty"`
	Pending       bool     `json:"pending"`
}

// TransactionsResponse is the aggregator's transactions-get payload.
type TransactionsResponse struct {
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total_transactions"`
}

type linkTokenRequest struct {
	ClientID     string   `json:"client_id"`
	Secret       string   `json:"secret"`
	ClientName   string   `json:"client_name"`
	Language     string   `json:"language"`
	CountryCodes []string `json:"country_codes"`
	Products     []string `json:"products"`
	User         struct {
		ClientUserID string `json:"client_user_id"`
	} `json:"user"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type exchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

type transactionsRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// CreateLinkToken creates a link session for the client-side linking flow.
func (c *HTTPClient) CreateLinkToken(ctx context.Context, userRef string, useRedirect bool) (string, error) {
	req := linkTokenRequest{
		ClientID:     c.cfg.ClientID,
		Secret:       c.cfg.Secret,
		ClientName:   c.cfg.ClientName,
		Language:     "en",
		CountryCodes: []string{"US"},
		Products:     []string{"transactions"},
	}
	req.User.ClientUserID = userRef
	if useRedirect {
		req.RedirectURI = c.cfg.RedirectURI
	}

	var resp linkTokenResponse
	if err := c.post(ctx, linkTokenPath, req, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken exchanges a temporary public token for the durable
// access token and the item reference it belongs to.
func (c *HTTPClient) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	req := exchangeRequest{
		ClientID:    c.cfg.ClientID,
		Secret:      c.cfg.Secret,
		PublicToken: publicToken,
	}

	var resp exchangeResponse
	if err := c.post(ctx, exchangeTokenPath, req, &resp); err != nil {
		return "", "", err
	}
	return resp.AccessToken, resp.ItemID, nil
}

// GetTransactions fetches accounts and transactions for an access token
// over the given date range.
func (c *HTTPClient) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) (*TransactionsResponse, error) {
	req := transactionsRequest{
		ClientID:    c.cfg.ClientID,
		Secret:      c.cfg.Secret,
		AccessToken: accessToken,
		StartDate:   startDate.Format("2006-01-02"),
		EndDate:     endDate.Format("2006-01-02"),
	}

	var resp TransactionsResponse
	if err := c.post(ctx, transactionsPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		aggErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, aggErr); err != nil || aggErr.Message == "" {
			aggErr.Message = string(respBody)
		}
		return aggErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
