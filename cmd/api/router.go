package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"booklibrary/internal/catalog"
	"booklibrary/internal/config"
	"booklibrary/internal/httpx"
	"booklibrary/internal/ingest"
	"booklibrary/internal/platform/isbndb"
	"booklibrary/internal/search"
)

// newRouter wires the services and returns the full handler chain. The
// returned func releases background resources.
func newRouter(cfg config.Config, repo catalog.Repository, external *isbndb.Client, logger *slog.Logger) (http.Handler, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	searcher := catalog.NewSearcher(repo, catalog.SearchConfig{
		SimilarityThreshold: cfg.SimilarityThreshold,
		FuzzyOnlyWhenShort:  cfg.FuzzyOnlyWhenShort,
	})
	importer := ingest.NewService(repo, logger)
	orchestrator := search.NewOrchestrator(searcher, external, importer, repo, logger)
	sessions := search.NewSessionStore(cfg.SessionTTL)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	search.NewHTTPHandler(orchestrator, sessions, logger).Routes(router, httpx.AuthMiddleware(cfg.JWTSecret))
	ingest.NewHTTPHandler(importer, external, cfg.InternalSecret, logger).Routes(router)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RecoveryMiddleware(logger),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
	}
	cleanup := func() {}
	// A zero rate disables per-client limiting.
	if cfg.RateLimitRPS > 0 {
		limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
		middlewares = append(middlewares, limiter.Middleware)
		cleanup = limiter.Stop
	}
	middlewares = append(middlewares, httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))

	return httpx.Chain(router, middlewares...), cleanup
}
