package main

import (
	"log"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/linkeditem"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/personality"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/session"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/transaction"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/aggregator"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/crypto"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/postgres"
	httphandlers "github.com/LifeFlow1-0/FinAgentAI/internal/interfaces/http"
	"github.com/LifeFlow1-0/FinAgentAI/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	LinkedItemHandler  *httphandlers.LinkedItemHandler
	TransactionHandler *httphandlers.TransactionHandler
	PersonalityHandler *httphandlers.PersonalityHandler
	SessionHandler     *httphandlers.SessionHandler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	itemRepo := postgres.NewItemRepository(db, encryptor)
	transactionRepo := postgres.NewTransactionRepository(db)
	personalityRepo := postgres.NewPersonalityRepository(db, encryptor)
	sessionRepo := postgres.NewSessionRepository(db)

	// Initialize aggregator client
	aggClient := aggregator.NewClient(aggregator.Config{
		ClientID:    cfg.Aggregator.ClientID,
		Secret:      cfg.Aggregator.Secret,
		BaseURL:     cfg.Aggregator.BaseURL,
		ClientName:  cfg.Aggregator.ClientName,
		RedirectURI: cfg.Aggregator.RedirectURI,
	})

	// Initialize domain services
	itemService := linkeditem.NewService(aggClient, itemRepo)
	transactionService := transaction.NewService(transactionRepo, userRepo, itemRepo)
	personalityService := personality.NewService(personalityRepo, userRepo)
	sessionService := session.NewService(sessionRepo, cfg.Session.TTL)

	return &Dependencies{
		DB:                 db,
		LinkedItemHandler:  httphandlers.NewLinkedItemHandler(itemService),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService),
		PersonalityHandler: httphandlers.NewPersonalityHandler(personalityService),
		SessionHandler:     httphandlers.NewSessionHandler(sessionService),
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
