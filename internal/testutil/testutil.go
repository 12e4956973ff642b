// Package testutil holds fixtures and helpers shared by handler and
// end-to-end tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"booklibrary/internal/catalog"
	"booklibrary/internal/platform/crypto"
)

// Dune is an external record with a single author.
var Dune = catalog.ExternalBook{
	Title:   "Dune",
	ISBN:    "0441172717",
	ISBN13:  "9780441172719",
	Authors: []string{"Frank Herbert"},
	Genres:  []string{"Science Fiction"},
}

// DuneMessiah shares its author with Dune.
var DuneMessiah = catalog.ExternalBook{
	Title:   "Dune Messiah",
	ISBN13:  "9780593098233",
	Authors: []string{"Frank Herbert"},
	Genres:  []string{"Science Fiction"},
}

// Hobbit carries more subjects than ingestion keeps.
var Hobbit = catalog.ExternalBook{
	Title:     "The Hobbit",
	Subtitle:  "There and Back Again",
	TitleLong: "The Hobbit: There and Back Again",
	ISBN:      "054792822X",
	ISBN13:    "9780547928210",
	Publisher: "Mariner Books",
	Authors:   []string{"J.R.R. Tolkien"},
	Genres:    []string{"Fantasy", "Classics", "Adventure", "Dragons", "Quests", "Middle-earth"},
}

// NewSQLiteRepo opens an in-memory catalog closed at the end of the test.
func NewSQLiteRepo(t testing.TB) *catalog.SQLiteRepo {
	t.Helper()
	repo, err := catalog.OpenSQLite(context.Background(), ":memory:", 5*time.Second)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// NewISBNdbServer serves /book/{isbn} and /books/{query} for books in the
// ISBNdb wire format. A query matches titles case-insensitively.
func NewISBNdbServer(t testing.TB, books ...catalog.ExternalBook) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /book/{isbn}", func(w http.ResponseWriter, r *http.Request) {
		isbn := r.PathValue("isbn")
		for _, b := range books {
			if b.ISBN13 == isbn || b.ISBN == isbn {
				_ = json.NewEncoder(w).Encode(map[string]any{"book": wireBook(b)})
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /books/{query}", func(w http.ResponseWriter, r *http.Request) {
		query := strings.ToLower(r.PathValue("query"))
		found := []map[string]any{}
		for _, b := range books {
			if strings.Contains(strings.ToLower(b.Title), query) {
				found = append(found, wireBook(b))
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total": len(found), "books": found})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func wireBook(b catalog.ExternalBook) map[string]any {
	m := map[string]any{
		"title":     b.Title,
		"publisher": b.Publisher,
		"synopsis":  b.Synopsis,
		"authors":   b.Authors,
		"subjects":  b.Genres,
	}
	if b.ISBN != "" {
		m["isbn"] = b.ISBN
	}
	if b.ISBN13 != "" {
		m["isbn13"] = b.ISBN13
	}
	if b.TitleLong != "" {
		m["title_long"] = b.TitleLong
	} else if b.Subtitle != "" {
		m["title_long"] = b.Title + ": " + b.Subtitle
	}
	return m
}

// GenerateTestToken signs a one hour token for tests.
func GenerateTestToken(secret, subject, role string) string {
	token, _, _ := crypto.GenerateToken(secret, subject, role, time.Hour)
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret, subject, role string) string {
	c := crypto.Claims{
		Sub:  subject,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    crypto.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request with an optional JSON body.
func NewRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	bodyBytes, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token.
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse is a decoded response envelope.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes the recorded JSON body.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}

// Data returns the data member of a success envelope.
func (r RecordResponse) Data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}
