package database

import (
	"context"
	"fmt"
	"log"

	"reelfeed/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Connected to database successfully")
	return db, nil
}

// Check executes a trivial statement and reports boolean success. Used by
// /health and the schema setup endpoint only, never on the request hot path.
func Check(ctx context.Context, db *sqlx.DB) bool {
	var one int
	if err := db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		log.Printf("[Database] Connectivity check failed: %v", err)
		return false
	}
	return true
}
