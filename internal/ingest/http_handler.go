package ingest

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"booklibrary/internal/catalog"
	"booklibrary/internal/httpx"
	"booklibrary/internal/platform/isbndb"
)

// InternalSecretHeader carries the shared secret for internal job endpoints.
const InternalSecretHeader = "X-Internal-Secret"

type HTTPHandler struct {
	svc     *Service
	fetcher Fetcher
	secret  string
	logger  *slog.Logger
}

func NewHTTPHandler(svc *Service, fetcher Fetcher, secret string, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{svc: svc, fetcher: fetcher, secret: secret, logger: logger}
}

func (h *HTTPHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /internal/jobs/import", h.Import)
}

type importJobRequest struct {
	ISBNs []string `json:"isbns" validate:"required,min=1,max=100,dive,isbn"`
}

type importJobResponse struct {
	Books  []catalog.Book `json:"books"`
	Report BatchReport    `json:"report"`
}

// Import handles POST /internal/jobs/import
// @Summary Import a batch of ISBNs
// @Description Fetches each ISBN from ISBNdb and stores the records found
// @Tags internal
// @Accept json
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret for authentication"
// @Param body body importJobRequest true "ISBNs to import"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /internal/jobs/import [post]
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(InternalSecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	var req importJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}

	books, report, err := h.svc.ImportISBNs(r.Context(), h.fetcher, req.ISBNs)
	if err != nil {
		h.logger.WarnContext(r.Context(), "import job stopped early",
			"succeeded", report.Succeeded, "failed", report.Failed, "error", err)

		var rl *isbndb.RateLimitError
		if errors.As(err, &rl) {
			if rl.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
			}
			httpx.JSONError(w, r, http.StatusTooManyRequests, "UPSTREAM_RATE_LIMITED",
				"External catalog rate limit reached after "+strconv.Itoa(report.Succeeded)+" imports", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "External catalog request failed", nil)
		return
	}

	httpx.JSONSuccess(w, r, importJobResponse{Books: books, Report: report},
		map[string]interface{}{"requested": len(req.ISBNs)})
}
