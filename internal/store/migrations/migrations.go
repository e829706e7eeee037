// Package migrations creates and upgrades the database schema.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id VARCHAR PRIMARY KEY,
		state VARCHAR NOT NULL,
		error VARCHAR NOT NULL DEFAULT '',
		job_count INTEGER NOT NULL DEFAULT 0,
		result_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT now(),
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
}

// Run executes all migrations. Statements are idempotent so Run is safe to
// call on every startup.
func Run(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
