package main

import (
	"log"
	"net/http"

	httphandlers "github.com/LifeFlow1-0/FinAgentAI/internal/interfaces/http"
	"github.com/LifeFlow1-0/FinAgentAI/internal/shared/config"
	"github.com/LifeFlow1-0/FinAgentAI/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", httphandlers.HandleHealth)

	// Linked items
	mux.HandleFunc("POST /linked-items/link-token", deps.LinkedItemHandler.HandleCreateLinkToken)
	mux.HandleFunc("POST /linked-items/exchange", deps.LinkedItemHandler.HandleExchange)
	mux.HandleFunc("GET /linked-items/{item_ref}/accounts", deps.LinkedItemHandler.HandleAccounts)
	mux.HandleFunc("GET /linked-items/{item_ref}/transactions", deps.LinkedItemHandler.HandleTransactions)

	// Transactions
	mux.HandleFunc("POST /transactions", deps.TransactionHandler.HandleCreate)
	mux.HandleFunc("GET /transactions", deps.TransactionHandler.HandleList)
	mux.HandleFunc("GET /transactions/{id}", deps.TransactionHandler.HandleGet)
	mux.HandleFunc("PUT /transactions/{id}", deps.TransactionHandler.HandleUpdate)
	mux.HandleFunc("DELETE /transactions/{id}", deps.TransactionHandler.HandleDelete)

	// Personality profile
	mux.HandleFunc("POST /user-profile/personality", deps.PersonalityHandler.HandleCreate)
	mux.HandleFunc("GET /user-profile/personality/{user_id}", deps.PersonalityHandler.HandleGet)

	// Onboarding sessions
	mux.HandleFunc("POST /session", deps.SessionHandler.HandleCreate)
	mux.HandleFunc("GET /session/{id}", deps.SessionHandler.HandleGet)
	mux.HandleFunc("PATCH /session/{id}", deps.SessionHandler.HandlePatch)

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(mux))
	if cfg.Telemetry.Enabled {
		handler = middleware.Tracing(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
