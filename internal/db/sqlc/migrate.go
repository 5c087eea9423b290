package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/katatrina/postboard/internal/db/migration"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded goose migrations on the pool's database.
func RunMigrations(ctx context.Context, connPool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(connPool)
	defer sqlDB.Close()

	goose.SetBaseFS(migration.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
