package migrations

import (
	"context"
	"fmt"
	"strings"

	"strategy-studio/internal/storage/postgres"
)

// RunPostgresMigrations brings up the relational side of the storefront:
// users, strategies and backtest_reports. Every statement uses IF NOT
// EXISTS, so reapplying on restart is a no-op.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := sqlFiles(PostgresFS, "postgres")
	if err != nil {
		return fmt.Errorf("read embedded postgres migrations: %w", err)
	}

	for _, file := range files {
		data, err := PostgresFS.ReadFile("postgres/" + file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		logger.Printf("applied postgres migration %s", file)
	}

	return nil
}
