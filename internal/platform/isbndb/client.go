// Package isbndb is a client for the ISBNdb v2 book API.
package isbndb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"booklibrary/internal/catalog"
	"booklibrary/internal/textnorm"
)

const (
	DefaultBaseURL   = "https://api2.isbndb.com"
	DefaultUserAgent = "booklibrary/1.0"

	defaultPageSize = 20
	maxPageSize     = 100

	// pingISBN is a well-known ISBN used to check the API key.
	pingISBN = "9780140447934"
)

type Config struct {
	BaseURL   string
	APIKey    string
	UserAgent string
}

// Client fetches and normalizes ISBNdb records. It never retries and sets no
// timeout of its own; pass an *http.Client to control either.
type Client struct {
	httpClient *http.Client
	cfg        Config
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		validate:   validator.New(),
		logger:     logger.With("component", "isbndb"),
	}
}

// FetchByISBN returns the record for isbn, or nil when the API has no such
// book or answered with something unusable.
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (*catalog.ExternalBook, error) {
	cleaned := textnorm.CleanISBN(isbn)
	if cleaned == "" {
		return nil, ErrInvalidISBN
	}

	var res bookResponse
	ok, err := c.get(ctx, "/book/"+url.PathEscape(cleaned), nil, &res)
	if err != nil || !ok {
		return nil, err
	}
	book := normalize(res.Book)
	return &book, nil
}

// SearchByQuery returns up to limit records matching query. The result is
// never nil.
func (c *Client) SearchByQuery(ctx context.Context, query string, limit int) ([]catalog.ExternalBook, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []catalog.ExternalBook{}, nil
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)

	params := url.Values{}
	params.Set("page", "1")
	params.Set("pageSize", strconv.Itoa(limit))

	var res booksResponse
	ok, err := c.get(ctx, "/books/"+url.PathEscape(query), params, &res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []catalog.ExternalBook{}, nil
	}

	books := lo.Map(res.Books, func(w wireBook, _ int) catalog.ExternalBook { return normalize(w) })
	if len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

// Ping checks that an API key is configured and accepted.
func (c *Client) Ping(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return fmt.Errorf("isbndb api key not configured")
	}

	req, err := c.newRequest(ctx, "/book/"+pingISBN, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("isbndb ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("isbndb api key invalid")
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewRateLimitError("isbndb rate limit reached", retryAfter(resp.Header))
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound:
		return fmt.Errorf("isbndb returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	u := c.cfg.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	return req, nil
}

// get decodes a successful response into target. It returns false without an
// error for a missing record and for any response that cannot be used.
func (c *Client) get(ctx context.Context, path string, params url.Values, target any) (bool, error) {
	req, err := c.newRequest(ctx, path, params)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("isbndb request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return false, NewRateLimitError("isbndb rate limit reached", retryAfter(resp.Header))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WarnContext(ctx, "isbndb returned unexpected status",
			"path", path, "status", resp.StatusCode, "body", string(body))
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		c.logger.WarnContext(ctx, "isbndb response could not be decoded", "path", path, "error", err)
		return false, nil
	}
	if err := c.validate.StructCtx(ctx, target); err != nil {
		c.logger.WarnContext(ctx, "isbndb response failed validation", "path", path, "error", err)
		return false, nil
	}
	return true, nil
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
