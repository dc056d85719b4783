package database

import (
	"context"
	"database/sql"
	"fmt"

	"carpeta/migrations"
)

// Migrate applies every embedded up migration in order. Statements are
// idempotent, so it runs on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	steps, err := migrations.Up()
	if err != nil {
		return err
	}
	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return fmt.Errorf("execute migration %s: %w", step.Name, err)
		}
	}
	return nil
}
