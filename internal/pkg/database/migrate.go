package database

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/fletero/fletero/migrations"
)

// RunMigrations applies the embedded goose migrations.
func (p *PostgresClient) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, p.db.DB, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
