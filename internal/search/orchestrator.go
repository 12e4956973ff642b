// Package search is the caller-facing layer over the local catalog and the
// external catalog: local search, explicit external search and import.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"booklibrary/internal/catalog"
	"booklibrary/internal/textnorm"
)

//go:generate mockgen -source=orchestrator.go -destination=mock_ports.go -package=search

// ErrNotFound is returned by ImportBook when the external catalog has no
// record for the isbn.
var ErrNotFound = errors.New("search: book not found in external catalog")

type LocalSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]catalog.Book, error)
}

type ExternalCatalog interface {
	FetchByISBN(ctx context.Context, isbn string) (*catalog.ExternalBook, error)
	SearchByQuery(ctx context.Context, query string, limit int) ([]catalog.ExternalBook, error)
}

type Importer interface {
	Upsert(ctx context.Context, ext catalog.ExternalBook) (*catalog.Book, error)
}

type BookReader interface {
	GetBook(ctx context.Context, id string) (catalog.Book, error)
}

// Service is what the HTTP layer and the CLI call.
type Service interface {
	Search(ctx context.Context, sess *Session, query string, limit int) (SearchResult, error)
	SearchExternal(ctx context.Context, sess *Session, query string, limit int) (ExternalResult, error)
	ImportBook(ctx context.Context, sess *Session, isbn string) (*catalog.Book, error)
	GetBook(ctx context.Context, id string) (catalog.Book, error)
}

type SearchResult struct {
	Local []catalog.Book `json:"local"`
	// HasExternalResults is a hint to offer an external search; it is true
	// exactly when Local is empty.
	HasExternalResults bool `json:"hasExternalResults"`
}

type ExternalResult struct {
	External []catalog.ExternalBook `json:"external"`
	// AlreadyAdded lists the identifiers of records in External that were
	// imported earlier in the session.
	AlreadyAdded []string `json:"alreadyAdded"`
}

type Orchestrator struct {
	local    LocalSearcher
	external ExternalCatalog
	importer Importer
	books    BookReader
	logger   *slog.Logger
}

var _ Service = (*Orchestrator)(nil)

func NewOrchestrator(local LocalSearcher, external ExternalCatalog, importer Importer, books BookReader, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		local:    local,
		external: external,
		importer: importer,
		books:    books,
		logger:   logger.With("component", "search"),
	}
}

// Search runs the local engine only and remembers the result in sess.
func (o *Orchestrator) Search(ctx context.Context, sess *Session, query string, limit int) (SearchResult, error) {
	sess = orFresh(sess)
	books, err := o.local.Search(ctx, query, limit)
	if err != nil {
		return SearchResult{}, err
	}
	sess.rememberLocal(books)
	return SearchResult{Local: books, HasExternalResults: len(books) == 0}, nil
}

// SearchExternal queries the external catalog and hides records already shown
// by the latest local search, unless they were imported in this session.
func (o *Orchestrator) SearchExternal(ctx context.Context, sess *Session, query string, limit int) (ExternalResult, error) {
	sess = orFresh(sess)
	query = strings.TrimSpace(query)
	if query == "" {
		return ExternalResult{}, catalog.ErrInvalidQuery
	}

	records, err := o.external.SearchByQuery(ctx, query, limit)
	if err != nil {
		return ExternalResult{}, err
	}

	res := ExternalResult{External: []catalog.ExternalBook{}, AlreadyAdded: []string{}}
	for _, rec := range records {
		imported, shown := sess.visibility(rec.Identifiers())
		switch {
		case imported:
			res.External = append(res.External, rec)
			res.AlreadyAdded = append(res.AlreadyAdded, rec.Identifiers()[0])
		case !shown:
			res.External = append(res.External, rec)
		}
	}
	res.AlreadyAdded = lo.Uniq(res.AlreadyAdded)
	return res, nil
}

// ImportBook fetches isbn from the external catalog and stores it. Importing
// a known book returns the stored copy.
func (o *Orchestrator) ImportBook(ctx context.Context, sess *Session, isbn string) (*catalog.Book, error) {
	sess = orFresh(sess)
	ext, err := o.external.FetchByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if ext == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}

	book, err := o.importer.Upsert(ctx, *ext)
	if err != nil {
		return nil, err
	}

	sess.rememberImport(ext.Identifiers()...)
	sess.rememberImport(book.Identifiers()...)
	sess.rememberImport(textnorm.CleanISBN(isbn))
	o.logger.InfoContext(ctx, "book import requested", "session", sess.ID, "isbn", isbn, "book_id", book.ID)
	return book, nil
}

func (o *Orchestrator) GetBook(ctx context.Context, id string) (catalog.Book, error) {
	return o.books.GetBook(ctx, id)
}

func orFresh(sess *Session) *Session {
	if sess == nil {
		return NewSession("")
	}
	return sess
}
