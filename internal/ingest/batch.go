package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"booklibrary/internal/catalog"
	"booklibrary/internal/textnorm"
)

// ErrNotInCatalog marks an isbn the external catalog does not know.
var ErrNotInCatalog = errors.New("ingest: isbn not found in external catalog")

// Fetcher looks a single isbn up in the external catalog.
type Fetcher interface {
	FetchByISBN(ctx context.Context, isbn string) (*catalog.ExternalBook, error)
}

type Failure struct {
	ISBN  string `json:"isbn"`
	Error string `json:"error"`
}

// BatchReport summarizes a batch import.
type BatchReport struct {
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

func (r *BatchReport) fail(isbn string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{ISBN: isbn, Error: err.Error()})
}

// UpsertMany imports each record on its own. A failing record is logged and
// skipped; the rest of the batch still runs.
func (s *Service) UpsertMany(ctx context.Context, exts []catalog.ExternalBook) ([]catalog.Book, BatchReport) {
	var (
		books  = make([]catalog.Book, 0, len(exts))
		report BatchReport
	)
	for _, ext := range exts {
		book, err := s.Upsert(ctx, ext)
		if err != nil {
			isbn := primaryISBN(ext)
			s.logger.WarnContext(ctx, "skipping record", "isbn", isbn, "title", ext.Title, "error", err)
			report.fail(isbn, err)
			continue
		}
		books = append(books, *book)
		report.Succeeded++
	}
	return books, report
}

// ImportISBNs fetches every isbn and imports the records found. Unknown
// isbns are reported as failures. A fetch error (rate limit, network) stops
// the batch and is returned with what was imported so far.
func (s *Service) ImportISBNs(ctx context.Context, fetcher Fetcher, isbns []string) ([]catalog.Book, BatchReport, error) {
	var (
		exts   []catalog.ExternalBook
		report BatchReport
	)
	cleaned := lo.Uniq(lo.Compact(lo.Map(isbns, func(raw string, _ int) string {
		return textnorm.CleanISBN(raw)
	})))

	var fetchErr error
	for _, isbn := range cleaned {
		ext, err := fetcher.FetchByISBN(ctx, isbn)
		if err != nil {
			fetchErr = fmt.Errorf("fetch %s: %w", isbn, err)
			break
		}
		if ext == nil {
			s.logger.WarnContext(ctx, "isbn not in external catalog", "isbn", isbn)
			report.fail(isbn, ErrNotInCatalog)
			continue
		}
		exts = append(exts, *ext)
	}

	books, upserted := s.UpsertMany(ctx, exts)
	report.Succeeded += upserted.Succeeded
	report.Failed += upserted.Failed
	report.Failures = append(report.Failures, upserted.Failures...)
	return books, report, fetchErr
}
