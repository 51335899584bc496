package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/saravana-agencies/billing-sync/internal/config"
)

const migrationsDir = "./migrations"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

// The migrations are postgres SQL (uuid defaults, JSONB line items).
// The sqlite local-dev schema is migrated by the api at startup, so
// this command only ever talks to the hosted postgres backend.
func run() error {
	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate [up|down|status|version|create <name>]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		return fmt.Errorf("database.driver is sqlite; the sqlite schema is migrated at api startup, migrations apply to postgres only")
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	command, rest := args[0], args[1:]
	if command == "create" {
		if len(rest) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		rest = append(rest, "sql")
	}

	if err := goose.RunContext(context.Background(), command, db, migrationsDir, rest...); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
