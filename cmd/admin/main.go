package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/session"
	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/user"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/postgres"
	"github.com/LifeFlow1-0/FinAgentAI/internal/shared/auth"
	"github.com/LifeFlow1-0/FinAgentAI/internal/shared/config"
)

const usage = `LifeFlow Admin CLI - Management commands for the LifeFlow API

Usage:
  admin <command> [options]

Commands:
  seed-user        Create a user account
  purge-sessions   Delete expired onboarding sessions

Examples:
  # Create a user
  admin seed-user --email=dev@example.com --password=changeme

  # Delete expired sessions
  admin purge-sessions

  # Delete expired sessions with a custom timeout
  admin purge-sessions --timeout=1m`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "seed-user":
		runSeedUser(os.Args[2:])
	case "purge-sessions":
		runPurgeSessions(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func runSeedUser(args []string) {
	fs := flag.NewFlagSet("seed-user", flag.ExitOnError)

	email := fs.String("email", "", "Email address for the new user")
	password := fs.String("password", "", "Password for the new user")
	timeoutStr := fs.String("timeout", "30s", "Timeout for the operation")

	fs.Usage = func() {
		fmt.Println("Usage: admin seed-user [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *email == "" || *password == "" {
		fmt.Println("Error: must specify --email and --password")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	db := connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	userRepo := postgres.NewUserRepository(db)

	existing, err := userRepo.GetByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("Failed to check existing user: %v", err)
	}
	if existing != nil {
		log.Fatalf("User with email %s already exists (id %d)", *email, existing.ID)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	u, err := userRepo.Create(ctx, user.CreateParams{
		Email:        *email,
		PasswordHash: hash,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %d (%s)\n", u.ID, u.Email)
}

func runPurgeSessions(args []string) {
	fs := flag.NewFlagSet("purge-sessions", flag.ExitOnError)

	timeoutStr := fs.String("timeout", "30s", "Timeout for the operation")

	fs.Usage = func() {
		fmt.Println("Usage: admin purge-sessions [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	db := connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sessions := session.NewService(postgres.NewSessionRepository(db), 0)

	startTime := time.Now()
	deleted, err := sessions.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("Failed to purge sessions: %v", err)
	}

	log.Printf("Purged %d expired session(s) in %v", deleted, time.Since(startTime))
}

func connect() *postgres.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	return db
}
