package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects to the catalog store named by driver ("postgres" or
// "sqlite") and checks that it answers.
func Open(ctx context.Context, driver, dsn string, timeout time.Duration) (Repository, error) {
	switch driver {
	case "sqlite":
		repo, err := OpenSQLite(ctx, dsn, timeout)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "postgres", "":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("cannot create db pool: %w", err)
		}
		repo := NewPostgresRepo(pool, timeout)
		if err := repo.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(dsn), err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
