package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	migrationsDir := filepath.Join(repoRoot, "db", "migrations")

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", migrationsDir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(migrationsDir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", e.Name(), err)
		}
		s := string(b)
		if !strings.Contains(s, "-- +goose Up") {
			t.Fatalf("%s missing '-- +goose Up'", e.Name())
		}
		if !strings.Contains(s, "-- +goose Down") {
			t.Fatalf("%s missing '-- +goose Down'", e.Name())
		}
	}
}

func TestCatalogMigration_DeclaresSearchAndDedupeSchema(t *testing.T) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations", "00001_create_catalog.sql")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	up, _, found := strings.Cut(string(b), "-- +goose Down")
	if !found {
		t.Fatal("missing '-- +goose Down'")
	}

	for _, want := range []string{
		"CREATE EXTENSION IF NOT EXISTS pg_trgm",
		"CREATE UNIQUE INDEX book_isbn13_key ON book (isbn13) WHERE isbn13 IS NOT NULL",
		"CREATE UNIQUE INDEX book_isbn_key ON book (isbn) WHERE isbn IS NOT NULL",
		"CHECK (isbn IS NOT NULL OR isbn13 IS NOT NULL)",
		"ON book USING GIN (title gin_trgm_ops)",
		"ON book USING GIN (subtitle gin_trgm_ops)",
		"ON author USING GIN (name gin_trgm_ops)",
		"PRIMARY KEY (book_id, author_id)",
		"PRIMARY KEY (book_id, genre_id)",
	} {
		if !strings.Contains(up, want) {
			t.Errorf("up migration missing %q", want)
		}
	}
}
