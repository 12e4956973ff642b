package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"booklibrary/internal/logging"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, redo, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	if err := run(*command, *name); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(command, name string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stdout, s.logLevel, s.logFormat)
	if err != nil {
		return err
	}

	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, s.migrationsDir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		logger.Info("migration created", "name", name, "dir", s.migrationsDir)
		return nil
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		err = goose.UpContext(ctx, db, s.migrationsDir)
	case "down":
		err = goose.DownContext(ctx, db, s.migrationsDir)
	case "redo":
		err = goose.RedoContext(ctx, db, s.migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, db, s.migrationsDir)
	case "version":
		err = goose.VersionContext(ctx, db, s.migrationsDir)
	default:
		return fmt.Errorf("unknown command %q; use up, down, redo, status, version, create", command)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	logger.Info("migrations finished", "command", command, "dir", s.migrationsDir)
	return nil
}
