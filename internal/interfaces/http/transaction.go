package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/transaction"
)

type TransactionHandler struct {
	svc *transaction.Service
}

func NewTransactionHandler(svc *transaction.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type transactionRequest struct {
	UserID          int64           `json:"user_id"`
	ItemID          int64           `json:"item_id"`
	AccountID       int64           `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	Category        string          `json:"category"`
	MerchantName    *string         `json:"merchant_name"`
	Description     *string         `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	PostedDate      time.Time       `json:"posted_date"`
}

func (req transactionRequest) toInput() transaction.CreateInput {
	return transaction.CreateInput{
		UserID:          req.UserID,
		LinkedItemID:    req.ItemID,
		LinkedAccountID: req.AccountID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Type:            req.Type,
		Status:          req.Status,
		Category:        req.Category,
		MerchantName:    req.MerchantName,
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
		PostedDate:      req.PostedDate,
	}
}

// HandleCreate creates a new transaction
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "invalid request body")
		return
	}

	tx, err := h.svc.Create(r.Context(), req.toInput())
	if err != nil {
		var fieldErrs transaction.ValidationErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, "transaction validation failed", fieldErrs)
			return
		}
		log.Printf("Error creating transaction: %v", err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// HandleGet returns a specific transaction
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "transaction id must be an integer")
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			writeError(w, http.StatusNotFound, categoryNotFound, "transaction not found")
			return
		}
		log.Printf("Error getting transaction %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// HandleList returns transactions matching the query filters. Filters
// compose conjunctively; unset filters are no constraint.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter transaction.ListFilter
	fieldErrs := map[string]string{}

	if s := q.Get("status"); s != "" {
		status, err := transaction.ParseStatus(s)
		if err != nil {
			fieldErrs["status"] = err.Error()
		}
		filter.Status = status
	}
	if s := q.Get("type"); s != "" {
		txType, err := transaction.ParseType(s)
		if err != nil {
			fieldErrs["type"] = err.Error()
		}
		filter.Type = txType
	}
	if s := q.Get("start_date"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			fieldErrs["start_date"] = "invalid date format"
		} else {
			filter.StartDate = &t
		}
	}
	if s := q.Get("end_date"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			fieldErrs["end_date"] = "invalid date format"
		} else {
			filter.EndDate = &t
		}
	}
	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			fieldErrs["skip"] = "skip must be a non-negative integer"
		} else {
			filter.Offset = n
		}
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			fieldErrs["limit"] = "limit must be a positive integer"
		} else {
			filter.Limit = n
		}
	}

	if len(fieldErrs) > 0 {
		writeFieldErrors(w, "invalid list filters", fieldErrs)
		return
	}

	transactions, err := h.svc.List(r.Context(), filter)
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to list transactions")
		return
	}

	if transactions == nil {
		transactions = []*transaction.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

// HandleUpdate replaces the mutable fields of a transaction
func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "transaction id must be an integer")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "invalid request body")
		return
	}

	tx, err := h.svc.Update(r.Context(), id, req.toInput())
	if err != nil {
		var fieldErrs transaction.ValidationErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, "transaction validation failed", fieldErrs)
			return
		}
		if errors.Is(err, transaction.ErrNotFound) {
			writeError(w, http.StatusNotFound, categoryNotFound, "transaction not found")
			return
		}
		log.Printf("Error updating transaction %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to update transaction")
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// HandleDelete deletes a transaction
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "transaction id must be an integer")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			writeError(w, http.StatusNotFound, categoryNotFound, "transaction not found")
			return
		}
		log.Printf("Error deleting transaction %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDateParam accepts both plain dates and full RFC 3339 timestamps.
func parseDateParam(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
