package schema

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// ErrVerificationFailed is returned when, after table creation, introspection
// cannot confirm both tables and the post ownership column.
var ErrVerificationFailed = errors.New("database schema verification failed")

const createUsersTable = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		external_id VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) NOT NULL,
		first_name VARCHAR(100),
		last_name VARCHAR(100),
		username VARCHAR(50) UNIQUE,
		bio TEXT,
		avatar_url TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)
`

const createPostsTable = `
	CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255),
		content TEXT NOT NULL,
		media_url TEXT,
		media_caption TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)
`

var createIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_external_id ON users(external_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)`,
}

// Ensure creates the users and posts tables and their indexes. It is
// idempotent and safe to call repeatedly; everything uses IF NOT EXISTS.
// Indexes are only created after introspection confirms the tables and the
// ownership column actually exist.
func Ensure(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}

	if err := verify(ctx, db); err != nil {
		return err
	}

	for _, q := range createIndexes {
		if _, err := db.ExecContext(ctx, q); err != nil {
			// An index failing to build should not abort setup; the schema
			// itself is already verified
			log.Printf("[Schema] Index creation failed: %v", err)
		}
	}

	log.Println("[Schema] Database schema setup completed")
	return nil
}

// Reset drops both tables unconditionally and recreates them. Development
// bootstrapping only; destroys all data.
func Reset(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS posts`); err != nil {
		return fmt.Errorf("drop posts table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS users`); err != nil {
		return fmt.Errorf("drop users table: %w", err)
	}
	return Ensure(ctx, db)
}

// verify checks information_schema for both tables and the posts.user_id
// ownership column. Guards against silently proceeding on a partial schema.
func verify(ctx context.Context, db *sqlx.DB) error {
	var tables []string
	err := db.SelectContext(ctx, &tables, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name IN ('users', 'posts')
	`)
	if err != nil {
		return fmt.Errorf("verify tables: %w", err)
	}

	var ownerColumns int
	err = db.GetContext(ctx, &ownerColumns, `
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_schema = 'public'
		AND table_name = 'posts'
		AND column_name = 'user_id'
	`)
	if err != nil {
		return fmt.Errorf("verify columns: %w", err)
	}

	if len(tables) != 2 || ownerColumns < 1 {
		log.Printf("[Schema] Verification failed: tables=%v owner_columns=%d", tables, ownerColumns)
		return ErrVerificationFailed
	}

	return nil
}
