package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"

	"booklibrary/internal/catalog"
	"booklibrary/internal/config"
	"booklibrary/internal/ingest"
	"booklibrary/internal/logging"
	"booklibrary/internal/platform/isbndb"
	"booklibrary/internal/search"
)

// app holds what the subcommands need. It is built once per invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	repo     catalog.Repository
	external *isbndb.Client
	importer *ingest.Service
	orch     *search.Orchestrator
}

type appOpener func(ctx context.Context) (*app, error)

func openApp(ctx context.Context) (*app, error) {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	repo, err := catalog.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBTimeout)
	if err != nil {
		return nil, err
	}
	external := isbndb.NewClient(isbndb.Config{BaseURL: cfg.ISBNdbBaseURL, APIKey: cfg.ISBNdbAPIKey}, nil, logger)
	return newApp(cfg, logger, repo, external), nil
}

func newApp(cfg config.Config, logger *slog.Logger, repo catalog.Repository, external *isbndb.Client) *app {
	searcher := catalog.NewSearcher(repo, catalog.SearchConfig{
		SimilarityThreshold: cfg.SimilarityThreshold,
		FuzzyOnlyWhenShort:  cfg.FuzzyOnlyWhenShort,
	})
	importer := ingest.NewService(repo, logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		external: external,
		importer: importer,
		orch:     search.NewOrchestrator(searcher, external, importer, repo, logger),
	}
}

func (a *app) Close() error {
	if a == nil || a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

var errNoApp = errors.New("command needs a configured catalog")

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
