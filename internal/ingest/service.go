// Package ingest turns external catalog records into local books, authors
// and genres. Re-importing a known book is a read.
package ingest

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

// MaxGenres is the number of subjects linked per imported book.
const MaxGenres = 5

var (
	ErrMissingISBN  = errors.New("ingest: record has neither isbn nor isbn13")
	ErrMissingTitle = errors.New("ingest: record has no title")
)

type Service struct {
	store  catalog.Store
	logger *slog.Logger
}

func NewService(store catalog.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger.With("component", "ingest")}
}

// Upsert stores ext unless a book with the same isbn13 (or, failing that,
// isbn) already exists, and returns the stored book with its authors and
// genres. The whole import runs in one transaction.
func (s *Service) Upsert(ctx context.Context, ext catalog.ExternalBook) (*catalog.Book, error) {
	ext.ISBN = textnorm.CleanISBN(ext.ISBN)
	ext.ISBN13 = textnorm.CleanISBN(ext.ISBN13)
	ext.Title = strings.TrimSpace(ext.Title)
	if ext.ISBN == "" && ext.ISBN13 == "" {
		return nil, ErrMissingISBN
	}
	if ext.Title == "" {
		return nil, ErrMissingTitle
	}

	var (
		out     catalog.Book
		created bool
	)
	err := s.store.InTx(ctx, func(q catalog.Queries) error {
		existing, err := findExisting(ctx, q, ext)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			return err
		}

		book := bookFromExternal(ext)
		inserted, err := q.InsertBook(ctx, &book)
		if err != nil {
			return err
		}
		if !inserted {
			// Lost a race with a concurrent import of the same isbn.
			existing, err := findExisting(ctx, q, ext)
			if err != nil {
				return fmt.Errorf("re-read conflicting book: %w", err)
			}
			out = existing
			return nil
		}

		if book.Authors, err = linkAuthors(ctx, q, book.ID, ext.Authors); err != nil {
			return err
		}
		if book.Genres, err = linkGenres(ctx, q, book.ID, ext.Genres); err != nil {
			return err
		}
		out = book
		created = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", primaryISBN(ext), err)
	}

	if created {
		s.logger.InfoContext(ctx, "book imported", "id", out.ID, "isbn13", out.ISBN13, "isbn", out.ISBN,
			"authors", len(out.Authors), "genres", len(out.Genres))
	} else {
		s.logger.DebugContext(ctx, "book already present", "id", out.ID, "isbn13", out.ISBN13, "isbn", out.ISBN)
	}
	return &out, nil
}

// findExisting looks the record up by isbn13, then by isbn, and returns the
// book with its linked authors and genres.
func findExisting(ctx context.Context, q catalog.Queries, ext catalog.ExternalBook) (catalog.Book, error) {
	var (
		book catalog.Book
		err  = catalog.ErrNotFound
	)
	if ext.ISBN13 != "" {
		book, err = q.FindBookByISBN13(ctx, ext.ISBN13)
	}
	if errors.Is(err, catalog.ErrNotFound) && ext.ISBN != "" {
		book, err = q.FindBookByISBN(ctx, ext.ISBN)
	}
	if err != nil {
		return catalog.Book{}, err
	}

	if book.Authors, err = q.AuthorsOf(ctx, book.ID); err != nil {
		return catalog.Book{}, err
	}
	if book.Genres, err = q.GenresOf(ctx, book.ID); err != nil {
		return catalog.Book{}, err
	}
	return book, nil
}

func linkAuthors(ctx context.Context, q catalog.Queries, bookID string, names []string) ([]catalog.Author, error) {
	authors := []catalog.Author{}
	for i, name := range lo.Uniq(textnorm.CleanList(names)) {
		a, err := q.EnsureAuthor(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("author %q: %w", name, err)
		}
		if err := q.LinkAuthor(ctx, bookID, a.ID, i); err != nil {
			return nil, fmt.Errorf("link author %q: %w", name, err)
		}
		authors = append(authors, a)
	}
	return authors, nil
}

func linkGenres(ctx context.Context, q catalog.Queries, bookID string, names []string) ([]catalog.Genre, error) {
	names = textnorm.CleanList(names)
	if len(names) > MaxGenres {
		names = names[:MaxGenres]
	}

	genres := []catalog.Genre{}
	for i, name := range lo.Uniq(names) {
		g, err := q.EnsureGenre(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("genre %q: %w", name, err)
		}
		if err := q.LinkGenre(ctx, bookID, g.ID, i); err != nil {
			return nil, fmt.Errorf("link genre %q: %w", name, err)
		}
		genres = append(genres, g)
	}
	return genres, nil
}

func bookFromExternal(ext catalog.ExternalBook) catalog.Book {
	return catalog.Book{
		Title:         ext.Title,
		Subtitle:      strings.TrimSpace(ext.Subtitle),
		ISBN:          ext.ISBN,
		ISBN13:        ext.ISBN13,
		Synopsis:      ext.Synopsis,
		CoverURL:      ext.CoverURL,
		Publisher:     ext.Publisher,
		PageCount:     ext.PageCount,
		Language:      ext.Language,
		DatePublished: ext.DatePublished,
		TitleLong:     ext.TitleLong,
		Overview:      ext.Overview,
		Excerpt:       ext.Excerpt,
		Edition:       ext.Edition,
		Binding:       ext.Binding,
		Price:         ext.Price,
		Dimensions:    ext.Dimensions,
	}
}

func primaryISBN(ext catalog.ExternalBook) string {
	if ext.ISBN13 != "" {
		return ext.ISBN13
	}
	return ext.ISBN
}
