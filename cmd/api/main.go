package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booklibrary/internal/catalog"
	"booklibrary/internal/config"
	"booklibrary/internal/logging"
	"booklibrary/internal/platform/isbndb"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := errors.Join(cfg.Validate(), cfg.RequireServer()); err != nil {
		return err
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if cfg.ISBNdbAPIKey == "" {
		logger.Warn("ISBNDB_API_KEY is not set; external search and import will fail")
	}
	external := isbndb.NewClient(isbndb.Config{
		BaseURL: cfg.ISBNdbBaseURL,
		APIKey:  cfg.ISBNdbAPIKey,
	}, nil, logger)

	handler, cleanup := newRouter(cfg, repo, external, logger)
	defer cleanup()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr, "db_driver", cfg.DBDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (catalog.Repository, error) {
	repo, err := catalog.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection OK", "driver", cfg.DBDriver)
	return repo, nil
}
