package catalog

import (
	"context"
)

// StageQuery carries one search request into the repository stages.
type StageQuery struct {
	// Query is the trimmed user query.
	Query string
	// Stripped is Query without dots, matched against dot-stripped author names.
	Stripped string
	// Threshold is the minimum trigram score kept by the fuzzy stage.
	Threshold float64
	Limit     int
}

// SearchRepository runs the individual ranked stages of a local search.
type SearchRepository interface {
	MatchTitle(ctx context.Context, q StageQuery) ([]Book, error)
	MatchAuthor(ctx context.Context, q StageQuery) ([]Book, error)
	MatchFuzzy(ctx context.Context, q StageQuery) ([]Book, error)
	AuthorsByBook(ctx context.Context, bookIDs []string) (map[string][]Author, error)
}

// Queries are the reads and writes available inside a transaction.
//
// LinkAuthor and LinkGenre insert-or-ignore: an existing link is not an error.
// EnsureAuthor and EnsureGenre look a name up and create it when missing.
type Queries interface {
	GetBook(ctx context.Context, id string) (Book, error)
	FindBookByISBN13(ctx context.Context, isbn13 string) (Book, error)
	FindBookByISBN(ctx context.Context, isbn string) (Book, error)
	// InsertBook returns false, without error, when a book with the same
	// isbn13 or isbn already exists.
	InsertBook(ctx context.Context, b *Book) (bool, error)
	EnsureAuthor(ctx context.Context, name string) (Author, error)
	EnsureGenre(ctx context.Context, name string) (Genre, error)
	LinkAuthor(ctx context.Context, bookID, authorID string, position int) error
	LinkGenre(ctx context.Context, bookID, genreID string, position int) error
	AuthorsOf(ctx context.Context, bookID string) ([]Author, error)
	GenresOf(ctx context.Context, bookID string) ([]Genre, error)
}

// Store gives transactional access to the catalog tables.
type Store interface {
	InTx(ctx context.Context, fn func(q Queries) error) error
	GetBook(ctx context.Context, id string) (Book, error)
}

// Repository is implemented by PostgresRepo and SQLiteRepo.
type Repository interface {
	Store
	SearchRepository
	Ping(ctx context.Context) error
	Close() error
}
