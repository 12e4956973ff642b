package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklibrary/internal/config"
	"booklibrary/internal/httpx"
	"booklibrary/internal/ingest"
	"booklibrary/internal/platform/crypto"
	"booklibrary/internal/platform/isbndb"
	"booklibrary/internal/testutil"
)

const (
	testJWTSecret      = "jwt-secret"
	testInternalSecret = "internal-secret"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:           testJWTSecret,
		InternalSecret:      testInternalSecret,
		SimilarityThreshold: 0.2,
		FuzzyOnlyWhenShort:  true,
		SessionTTL:          time.Minute,
		MaxBodyBytes:        1 << 20,
		CORSOrigins:         []string{"https://app.example"},
	}
}

func newTestServer(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	repo := testutil.NewSQLiteRepo(t)
	srv := testutil.NewISBNdbServer(t, testutil.Dune, testutil.Hobbit)
	client := isbndb.NewClient(isbndb.Config{BaseURL: srv.URL, APIKey: "test-key"}, srv.Client(), nil)

	handler, cleanup := newRouter(cfg, repo, client, nil)
	t.Cleanup(cleanup)
	return handler
}

func serve(h http.Handler, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestRouter_Health(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_V1Routing(t *testing.T) {
	h := newTestServer(t, testConfig())

	t.Run("v1 prefix required", func(t *testing.T) {
		res := serve(h, httptest.NewRequest(http.MethodGet, "/books/search?q=Dune", nil))
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("search sets session, request id and security headers", func(t *testing.T) {
		res := serve(h, httptest.NewRequest(http.MethodGet, "/v1/books/search?q=Dune", nil))
		require.Equal(t, http.StatusOK, res.Code)
		assert.NotEmpty(t, res.Header.Get(httpx.SessionHeader))
		assert.NotEmpty(t, res.Header.Get("X-Request-Id"))
		assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))
		assert.Equal(t, true, res.Data()["hasExternalResults"])
	})

	t.Run("cors preflight", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/v1/books/search", nil)
		r.Header.Set("Origin", "https://app.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRouter_ImportThenSearch(t *testing.T) {
	h := newTestServer(t, testConfig())
	token := testutil.GenerateTestToken(testJWTSecret, "ops", crypto.RoleImporter)

	res := serve(h, testutil.NewRequest(http.MethodPost, "/v1/books/import", map[string]string{"isbn": "9780441172719"}))
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/v1/books/import",
		map[string]string{"isbn": "978-0-441-17271-9"}, token))
	require.Equal(t, http.StatusCreated, res.Code)
	id, _ := res.Data()["id"].(string)
	require.NotEmpty(t, id)

	res = serve(h, httptest.NewRequest(http.MethodGet, "/v1/books/search?q=Dune", nil))
	require.Equal(t, http.StatusOK, res.Code)
	local, _ := res.Data()["local"].([]interface{})
	require.Len(t, local, 1)
	book := local[0].(map[string]interface{})
	assert.Equal(t, id, book["id"])
	authors := book["authors"].([]interface{})
	require.Len(t, authors, 1)
	assert.Equal(t, "Frank Herbert", authors[0].(map[string]interface{})["name"])

	res = serve(h, httptest.NewRequest(http.MethodGet, "/v1/books/"+id, nil))
	assert.Equal(t, http.StatusOK, res.Code)

	res = serve(h, httptest.NewRequest(http.MethodGet, "/v1/books/9a1c1c3e-0000-4000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "NOT_FOUND", res.ErrorCode())

	res = serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/v1/books/import",
		map[string]string{"isbn": "9780000000002"}, token))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestRouter_InternalImportJob(t *testing.T) {
	h := newTestServer(t, testConfig())

	r := testutil.NewRequest(http.MethodPost, "/internal/jobs/import",
		map[string][]string{"isbns": {"9780547928210", "9780441172719"}})
	r.Header.Set(ingest.InternalSecretHeader, testInternalSecret)
	res := serve(h, r)
	require.Equal(t, http.StatusOK, res.Code)

	report := res.Data()["report"].(map[string]interface{})
	assert.Equal(t, float64(2), report["succeeded"])

	res = serve(h, httptest.NewRequest(http.MethodGet, "/v1/books/search?q=JRR", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Data()["local"], 1)
}

func TestRouter_RequestSizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 16
	h := newTestServer(t, cfg)

	r := httptest.NewRequest(http.MethodPost, "/v1/books/import",
		strings.NewReader(`{"isbn":"9780441172719","padding":"xxxxxxxxxxxxxxxx"}`))
	res := serve(h, r)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1
	h := newTestServer(t, cfg)

	first := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	second := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
