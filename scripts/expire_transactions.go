// Manual trigger for the stale-transaction sweep.
//
// The sweep already runs hourly inside the main application; this script
// exists for one-off runs, for example after restoring a database dump
// with old pending rows.
//
// Usage: go run scripts/expire_transactions.go
package main

import (
	"log"
	"time"

	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/internal/repository"
	"pulsebeat_backend/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	repo := repository.NewTransactionRepository(db)
	n, err := repo.ExpirePending(time.Now().Add(-24 * time.Hour))
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	log.Printf("expired %d stale pending transactions", n)
}
