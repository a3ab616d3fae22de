package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/personality"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/user"
)

// userIDHeader carries the caller's identity out-of-band; profile creation
// never trusts a user id in the body.
const userIDHeader = "X-User-ID"

type PersonalityHandler struct {
	svc *personality.Service
}

func NewPersonalityHandler(svc *personality.Service) *PersonalityHandler {
	return &PersonalityHandler{svc: svc}
}

type personalityRequest struct {
	Openness          string `json:"openness"`
	SocialEnergy      string `json:"social_energy"`
	LearningStyle     string `json:"learning_style"`
	ActivityIntensity string `json:"activity_intensity"`
}

// HandleCreate stores the caller's personality profile. A second create
// for the same user is a conflict, not an upsert.
func (h *PersonalityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "X-User-ID header must be an integer")
		return
	}

	var req personalityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "invalid request body")
		return
	}

	traits, invalid := personality.ParseTraits(
		req.Openness, req.SocialEnergy, req.LearningStyle, req.ActivityIntensity,
	)
	if invalid != nil {
		writeFieldErrors(w, "invalid trait values", invalid)
		return
	}

	profile, err := h.svc.Create(r.Context(), userID, traits)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			writeError(w, http.StatusNotFound, categoryNotFound, "user not found")
		case errors.Is(err, personality.ErrAlreadyExists):
			writeError(w, http.StatusConflict, categoryConflict, "personality profile already exists")
		default:
			log.Printf("Error creating personality profile for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, categoryInternal, "failed to create personality profile")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"id":     profile.ID,
	})
}

// HandleGet returns the decrypted profile for a user
func (h *PersonalityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, categoryValidation, "user id must be an integer")
		return
	}

	profile, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, personality.ErrNotFound) {
			writeError(w, http.StatusNotFound, categoryNotFound, "personality profile not found")
			return
		}
		log.Printf("Error getting personality profile for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, categoryInternal, "failed to get personality profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
