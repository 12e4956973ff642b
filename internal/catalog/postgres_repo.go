package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

var _ Repository = (*PostgresRepo)(nil)

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func (r *PostgresRepo) Close() error {
	r.db.Close()
	return nil
}

// InTx runs fn in a single transaction, committing only when fn succeeds.
func (r *PostgresRepo) InTx(ctx context.Context, fn func(q Queries) error) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	if err := fn(&pgQueries{db: tx}); err != nil {
		return err
	}
	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) GetBook(ctx context.Context, id string) (Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Book{}, ErrNotFound
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := &pgQueries{db: r.db}
	b, err := q.GetBook(timeoutCtx, id)
	if err != nil {
		return Book{}, err
	}
	if err := hydrate(timeoutCtx, q, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) MatchTitle(ctx context.Context, q StageQuery) ([]Book, error) {
	return r.queryBooks(ctx, postgresDialect.titleStage(q), false)
}

func (r *PostgresRepo) MatchAuthor(ctx context.Context, q StageQuery) ([]Book, error) {
	return r.queryBooks(ctx, postgresDialect.authorStage(q), false)
}

func (r *PostgresRepo) MatchFuzzy(ctx context.Context, q StageQuery) ([]Book, error) {
	return r.queryBooks(ctx, postgresDialect.fuzzyStage(q), true)
}

func (r *PostgresRepo) queryBooks(ctx context.Context, b sq.SelectBuilder, scored bool) ([]Book, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var (
			book  Book
			score float64
		)
		if scored {
			book, err = scanBook(rows, &score)
		} else {
			book, err = scanBook(rows)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, book)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) AuthorsByBook(ctx context.Context, bookIDs []string) (map[string][]Author, error) {
	out := make(map[string][]Author, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	query, args, err := postgresDialect.authorsByBook(bookIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID string
			a      Author
		)
		if err := rows.Scan(&bookID, &a.ID, &a.Name); err != nil {
			return nil, err
		}
		out[bookID] = append(out[bookID], a)
	}
	return out, rows.Err()
}

type pgQueries struct {
	db pgQuerier
}

const pgSelectBook = `
	SELECT b.id, b.title, COALESCE(b.subtitle, ''), COALESCE(b.isbn, ''), COALESCE(b.isbn13, ''),
	       b.synopsis, b.cover_url, b.publisher, b.page_count, b.language, b.date_published,
	       b.title_long, b.overview, b.excerpt, b.edition, b.binding, b.price, b.dimensions,
	       b.created_at, b.updated_at
	FROM book b`

func (q *pgQueries) findBook(ctx context.Context, where string, arg any) (Book, error) {
	b, err := scanBook(q.db.QueryRow(ctx, pgSelectBook+" WHERE "+where+" LIMIT 1", arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (q *pgQueries) GetBook(ctx context.Context, id string) (Book, error) {
	return q.findBook(ctx, "b.id = $1", id)
}

func (q *pgQueries) FindBookByISBN13(ctx context.Context, isbn13 string) (Book, error) {
	return q.findBook(ctx, "b.isbn13 = $1", isbn13)
}

func (q *pgQueries) FindBookByISBN(ctx context.Context, isbn string) (Book, error) {
	return q.findBook(ctx, "b.isbn = $1", isbn)
}

func (q *pgQueries) InsertBook(ctx context.Context, b *Book) (bool, error) {
	const sql = `
		INSERT INTO book (id, title, subtitle, isbn, isbn13, synopsis, cover_url, publisher,
		                  page_count, language, date_published, title_long, overview, excerpt,
		                  edition, binding, price, dimensions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, now(), now())
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at`

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := q.db.QueryRow(ctx, sql,
		b.ID, b.Title, nullIfEmpty(b.Subtitle), nullIfEmpty(b.ISBN), nullIfEmpty(b.ISBN13),
		b.Synopsis, b.CoverURL, b.Publisher, b.PageCount, b.Language, b.DatePublished,
		b.TitleLong, b.Overview, b.Excerpt, b.Edition, b.Binding, b.Price, b.Dimensions,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert book: %w", err)
	}
	return true, nil
}

func (q *pgQueries) EnsureAuthor(ctx context.Context, name string) (Author, error) {
	const (
		selectSQL = `SELECT id, name FROM author WHERE name = $1`
		insertSQL = `INSERT INTO author (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	)
	var a Author
	err := q.ensure(ctx, selectSQL, insertSQL, name, &a.ID, &a.Name)
	return a, err
}

func (q *pgQueries) EnsureGenre(ctx context.Context, name string) (Genre, error) {
	const (
		selectSQL = `SELECT id, name, parent_id FROM genre WHERE name = $1`
		insertSQL = `INSERT INTO genre (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	)
	var g Genre
	err := q.ensure(ctx, selectSQL, insertSQL, name, &g.ID, &g.Name, &g.ParentID)
	return g, err
}

// ensure selects a row by name, inserting it first when the lookup misses.
// A concurrent insert of the same name is absorbed by ON CONFLICT.
func (q *pgQueries) ensure(ctx context.Context, selectSQL, insertSQL, name string, dest ...any) error {
	err := q.db.QueryRow(ctx, selectSQL, name).Scan(dest...)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if _, err := q.db.Exec(ctx, insertSQL, uuid.NewString(), name); err != nil {
		return fmt.Errorf("insert %q: %w", name, err)
	}
	return q.db.QueryRow(ctx, selectSQL, name).Scan(dest...)
}

func (q *pgQueries) LinkAuthor(ctx context.Context, bookID, authorID string, position int) error {
	const sql = `
		INSERT INTO book_author (book_id, author_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`
	_, err := q.db.Exec(ctx, sql, bookID, authorID, position)
	return err
}

func (q *pgQueries) LinkGenre(ctx context.Context, bookID, genreID string, position int) error {
	const sql = `
		INSERT INTO book_genre (book_id, genre_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`
	_, err := q.db.Exec(ctx, sql, bookID, genreID, position)
	return err
}

func (q *pgQueries) AuthorsOf(ctx context.Context, bookID string) ([]Author, error) {
	const sql = `
		SELECT a.id, a.name
		FROM book_author ba
		JOIN author a ON a.id = ba.author_id
		WHERE ba.book_id = $1
		ORDER BY ba.position, a.name`
	rows, err := q.db.Query(ctx, sql, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []Author{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (q *pgQueries) GenresOf(ctx context.Context, bookID string) ([]Genre, error) {
	const sql = `
		SELECT g.id, g.name, g.parent_id
		FROM book_genre bg
		JOIN genre g ON g.id = bg.genre_id
		WHERE bg.book_id = $1
		ORDER BY bg.position, g.name`
	rows, err := q.db.Query(ctx, sql, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []Genre{}
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.ParentID); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
