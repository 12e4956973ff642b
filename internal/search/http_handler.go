package search

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"booklibrary/internal/catalog"
	"booklibrary/internal/httpx"
	"booklibrary/internal/ingest"
	"booklibrary/internal/platform/isbndb"
)

const defaultLimit = 20

type HTTPHandler struct {
	svc      Service
	sessions *SessionStore
	logger   *slog.Logger
}

func NewHTTPHandler(svc Service, sessions *SessionStore, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{svc: svc, sessions: sessions, logger: logger}
}

// Routes registers the book endpoints. Import is wrapped with protect.
func (h *HTTPHandler) Routes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /v1/books/search", h.Search)
	mux.HandleFunc("GET /v1/books/search/external", h.SearchExternal)
	mux.Handle("POST /v1/books/import", protect(http.HandlerFunc(h.Import)))
	mux.HandleFunc("GET /v1/books/{id}", h.GetBook)
}

type queryParams struct {
	Query string `json:"q" validate:"required,max=200"`
	Limit int    `json:"limit" validate:"gte=1,lte=100"`
}

type importRequest struct {
	ISBN string `json:"isbn" validate:"required,isbn"`
}

func (h *HTTPHandler) session(w http.ResponseWriter, r *http.Request) *Session {
	sess := h.sessions.Get(r.Header.Get(httpx.SessionHeader))
	w.Header().Set(httpx.SessionHeader, sess.ID)
	return sess
}

// parseQuery reads q and limit; it writes the error response and returns
// false when they are invalid.
func parseQuery(w http.ResponseWriter, r *http.Request) (queryParams, bool) {
	query := r.URL.Query()
	p := queryParams{Query: strings.TrimSpace(query.Get("q")), Limit: defaultLimit}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters",
				[]httpx.ErrorDetail{{Field: "limit", Message: "limit must be a number"}})
			return p, false
		}
		p.Limit = limit
	}
	if details := httpx.ValidateStruct(p); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return p, false
	}
	return p, true
}

// Search handles GET /v1/books/search
// @Summary Search the local catalog
// @Description Exact title, author and fuzzy matches from the local catalog
// @Tags books
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum results" default(20)
// @Param X-Session-Id header string false "Search session"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	p, ok := parseQuery(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Search(r.Context(), sess, p.Query, p.Limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, map[string]interface{}{"count": len(res.Local), "limit": p.Limit})
}

// SearchExternal handles GET /v1/books/search/external
// @Summary Search the external catalog
// @Description Queries ISBNdb; books already listed by the last local search are hidden
// @Tags books
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum results" default(20)
// @Param X-Session-Id header string false "Search session"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/books/search/external [get]
func (h *HTTPHandler) SearchExternal(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	p, ok := parseQuery(w, r)
	if !ok {
		return
	}

	res, err := h.svc.SearchExternal(r.Context(), sess, p.Query, p.Limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, map[string]interface{}{"count": len(res.External), "limit": p.Limit})
}

// Import handles POST /v1/books/import
// @Summary Import a book from the external catalog
// @Description Fetches the ISBN from ISBNdb and stores it with its authors and genres
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body importRequest true "ISBN to import"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Router /v1/books/import [post]
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}

	book, err := h.svc.ImportBook(r.Context(), sess, req.ISBN)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, book)
}

// GetBook handles GET /v1/books/{id}
// @Summary Get a local book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book ID is required", nil)
		return
	}

	book, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rl *isbndb.RateLimitError
	switch {
	case errors.Is(err, catalog.ErrInvalidQuery):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Query must not be empty", nil)
	case errors.Is(err, isbndb.ErrInvalidISBN):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ISBN", nil)
	case errors.Is(err, catalog.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found in external catalog", nil)
	case errors.As(err, &rl):
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
		}
		httpx.JSONError(w, r, http.StatusTooManyRequests, "UPSTREAM_RATE_LIMITED", "External catalog rate limit reached", nil)
	case errors.Is(err, ingest.ErrMissingISBN), errors.Is(err, ingest.ErrMissingTitle):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_INVALID", "External catalog returned an incomplete record", nil)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "request_id", httpx.RequestIDFrom(r), "error", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
