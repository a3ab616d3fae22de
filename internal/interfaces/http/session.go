package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/session"
)

type SessionHandler struct {
	svc *session.Service
}

func NewSessionHandler(svc *session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// HandleCreate starts a new onboarding session with an empty data blob
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Create(r.Context())
	if err != nil {
		log.Printf("Error creating session: %v", err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// HandleGet returns the session; expired sessions read as missing.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, categoryNotFound, "session not found")
			return
		}
		log.Printf("Error getting session: %v", err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// HandlePatch shallow-merges a key/value delta into the session data
func (h *SessionHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var delta map[string]any
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "invalid request body")
		return
	}

	sess, err := h.svc.Patch(r.Context(), r.PathValue("id"), delta)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, categoryNotFound, "session not found")
			return
		}
		log.Printf("Error patching session: %v", err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to patch session")
		return
	}

	writeJSON(w, http.StatusOK, sess)
}
