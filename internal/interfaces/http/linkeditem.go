package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/linkeditem"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/aggregator"
)

type LinkedItemHandler struct {
	svc *linkeditem.Service
}

func NewLinkedItemHandler(svc *linkeditem.Service) *LinkedItemHandler {
	return &LinkedItemHandler{svc: svc}
}

type linkTokenRequest struct {
	UserRef     string `json:"user_ref"`
	UseRedirect bool   `json:"use_redirect"`
}

type accountPayload struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	OfficialName *string `json:"official_name"`
	Type         string  `json:"type"`
	Subtype      *string `json:"subtype"`
	Mask         *string `json:"mask"`
}

type exchangeRequest struct {
	TempToken       string           `json:"temp_token"`
	InstitutionID   string           `json:"institution_id"`
	InstitutionName string           `json:"institution_name"`
	Accounts        []accountPayload `json:"accounts"`
}

// HandleCreateLinkToken starts a link session with the aggregator
func (h *LinkedItemHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	var req linkTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "invalid request body")
		return
	}
	if req.UserRef == "" {
		writeFieldErrors(w, "invalid link token request", map[string]string{"user_ref": "user_ref is required"})
		return
	}

	token, err := h.svc.CreateLinkToken(r.Context(), req.UserRef, req.UseRedirect)
	if err != nil {
		writeAggregatorError(w, "failed to create link token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"link_token": token})
}

// HandleExchange swaps the temporary token for a durable credential and
// stores the item with its accounts.
func (h *LinkedItemHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "invalid request body")
		return
	}

	fieldErrs := map[string]string{}
	if req.TempToken == "" {
		fieldErrs["temp_token"] = "temp_token is required"
	}
	if req.InstitutionID == "" {
		fieldErrs["institution_id"] = "institution_id is required"
	}
	if req.InstitutionName == "" {
		fieldErrs["institution_name"] = "institution_name is required"
	}
	if len(req.Accounts) == 0 {
		fieldErrs["accounts"] = "at least one account is required"
	}

	accounts := make([]linkeditem.AccountDescriptor, 0, len(req.Accounts))
	for i, a := range req.Accounts {
		desc := linkeditem.AccountDescriptor{
			AccountRef:   a.ID,
			Name:         a.Name,
			OfficialName: a.OfficialName,
			Type:         linkeditem.AccountType(a.Type),
			Subtype:      a.Subtype,
			Mask:         a.Mask,
		}
		if parsed, err := linkeditem.ParseAccountType(a.Type); err == nil {
			desc.Type = parsed
		}
		if err := desc.Validate(); err != nil {
			fieldErrs["accounts["+strconv.Itoa(i)+"]"] = err.Error()
			continue
		}
		accounts = append(accounts, desc)
	}

	if len(fieldErrs) > 0 {
		writeFieldErrors(w, "invalid exchange request", fieldErrs)
		return
	}

	itemRef, err := h.svc.Exchange(r.Context(), linkeditem.ExchangeParams{
		PublicToken:     req.TempToken,
		InstitutionID:   req.InstitutionID,
		InstitutionName: req.InstitutionName,
		Accounts:        accounts,
	})
	if err != nil {
		if errors.Is(err, linkeditem.ErrDuplicateInstitution) {
			writeError(w, http.StatusConflict, categoryConflict, err.Error())
			return
		}
		writeAggregatorError(w, "failed to exchange token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"item_ref": itemRef,
	})
}

// HandleAccounts returns the stored accounts for a linked item
func (h *LinkedItemHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.Accounts(r.Context(), r.PathValue("item_ref"))
	if err != nil {
		if errors.Is(err, linkeditem.ErrNotFound) {
			writeError(w, http.StatusNotFound, categoryNotFound, "linked item not found")
			return
		}
		log.Printf("Error listing accounts: %v", err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to list accounts")
		return
	}

	if accounts == nil {
		accounts = []*linkeditem.LinkedAccount{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// HandleTransactions fetches transactions from the aggregator for a
// stored item over an optional date range.
func (h *LinkedItemHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	itemRef := r.PathValue("item_ref")
	q := r.URL.Query()

	var start, end *time.Time
	fieldErrs := map[string]string{}
	if s := q.Get("start_date"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			fieldErrs["start_date"] = "invalid date format"
		} else {
			start = &t
		}
	}
	if s := q.Get("end_date"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			fieldErrs["end_date"] = "invalid date format"
		} else {
			end = &t
		}
	}
	if len(fieldErrs) > 0 {
		writeFieldErrors(w, "invalid date range", fieldErrs)
		return
	}

	resp, err := h.svc.Transactions(r.Context(), itemRef, start, end)
	if err != nil {
		switch {
		case errors.Is(err, linkeditem.ErrInvalidDateRange):
			writeError(w, http.StatusBadRequest, categoryValidation, err.Error())
		case errors.Is(err, linkeditem.ErrNotFound):
			writeError(w, http.StatusNotFound, categoryNotFound, "linked item not found")
		default:
			writeAggregatorError(w, "failed to fetch transactions", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeAggregatorError distinguishes aggregator-originated failures, which
// surface the upstream message as a 400, from internal failures.
func writeAggregatorError(w http.ResponseWriter, detail string, err error) {
	var aggErr *aggregator.Error
	if errors.As(err, &aggErr) {
		writeError(w, http.StatusBadRequest, categoryAggregator, aggErr.Message)
		return
	}
	log.Printf("%s: %v", detail, err)
	writeError(w, http.StatusInternalServerError, categoryInternal, detail)
}
