package http

import (
	"encoding/json"
	"log"
	"net/http"
)

// Machine-checkable error categories. Every error response carries one of
// these plus a human-readable detail string; raw internal error text never
// reaches clients on 500s.
const (
	categoryValidation = "validation_error"
	categoryNotFound   = "not_found"
	categoryConflict   = "conflict"
	categoryAggregator = "aggregator_error"
	categoryInternal   = "internal_error"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, category, detail string) {
	writeJSON(w, status, errorResponse{Error: category, Detail: detail})
}

// writeFieldErrors reports every failing field together in one response.
func writeFieldErrors(w http.ResponseWriter, detail string, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:  categoryValidation,
		Detail: detail,
		Fields: fields,
	})
}

// HandleHealth responds to liveness probes.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
