// Command migrate applies the versioned schema migrations in order.
// It runs separately from the API server: the schema is never patched
// during request-serving startup.
package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/consultora/consulting-tracker/pkg/config"
	"github.com/consultora/consulting-tracker/pkg/database"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment == "production")

	pg, err := database.NewPostgres(ctx, &cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer pg.Close()

	if err := run(ctx, pg, log); err != nil {
		log.Fatal("Migration failed", err)
	}

	log.Info("Migrations applied")
}

func run(ctx context.Context, pg *database.Postgres, log logger.Logger) error {
	if _, err := pg.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		var applied bool
		err := pg.DB.GetContext(ctx, &applied,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if applied {
			log.Debug("Migration already applied", map[string]interface{}{
				"version": name,
			})
			continue
		}

		script, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		// Each migration applies and records atomically
		err = pg.ExecTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(script)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Info("Applied migration", map[string]interface{}{
			"version": name,
		})
	}

	return nil
}
