package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"booklibrary/internal/textnorm"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions exposes textnorm.Similarity as similarity(a, b) so the
// fuzzy stage runs the same SQL on SQLite as on Postgres with pg_trgm, and
// fold(s) as a Unicode-aware lower() for the pattern stages.
func registerFunctions() error {
	registerOnce.Do(func() {
		err := sqlite.RegisterDeterministicScalarFunction("similarity", 2,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				a, _ := args[0].(string)
				b, _ := args[1].(string)
				return textnorm.Similarity(a, b), nil
			})
		if err != nil {
			registerErr = fmt.Errorf("register similarity: %w", err)
			return
		}
		err = sqlite.RegisterDeterministicScalarFunction("fold", 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				s, ok := args[0].(string)
				if !ok {
					return args[0], nil
				}
				return strings.ToLower(s), nil
			})
		if err != nil {
			registerErr = fmt.Errorf("register fold: %w", err)
		}
	})
	return registerErr
}

// sqlQuerier is satisfied by *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteRepo is the embedded catalog store. It holds a single connection, so
// an in-memory database is shared by every caller and writes are serialized.
type SQLiteRepo struct {
	db      *sql.DB
	timeout time.Duration
}

var _ Repository = (*SQLiteRepo)(nil)

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, dsn string, timeout time.Duration) (*SQLiteRepo, error) {
	if err := registerFunctions(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &SQLiteRepo{db: db, timeout: timeout}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", sqliteSchema} {
		if _, err := db.ExecContext(timeoutCtx, stmt); err != nil {
			closeErr := db.Close()
			return nil, errors.Join(fmt.Errorf("apply schema: %w", err), closeErr)
		}
	}
	return r, nil
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.PingContext(timeoutCtx)
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) InTx(ctx context.Context, fn func(q Queries) error) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteQueries{db: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepo) GetBook(ctx context.Context, id string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := &sqliteQueries{db: r.db}
	b, err := q.GetBook(timeoutCtx, id)
	if err != nil {
		return Book{}, err
	}
	if err := hydrate(timeoutCtx, q, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *SQLiteRepo) MatchTitle(ctx context.Context, q StageQuery) ([]Book, error) {
	return r.queryBooks(ctx, sqliteDialect.titleStage(q), false)
}

func (r *SQLiteRepo) MatchAuthor(ctx context.Context, q StageQuery) ([]Book, error) {
	return r.queryBooks(ctx, sqliteDialect.authorStage(q), false)
}

func (r *SQLiteRepo) MatchFuzzy(ctx context.Context, q StageQuery) ([]Book, error) {
	return r.queryBooks(ctx, sqliteDialect.fuzzyStage(q), true)
}

func (r *SQLiteRepo) queryBooks(ctx context.Context, b sq.SelectBuilder, scored bool) ([]Book, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
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
			book, err = scanBook(sqliteScanner{rows}, &score)
		} else {
			book, err = scanBook(sqliteScanner{rows})
		}
		if err != nil {
			return nil, err
		}
		out = append(out, book)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) AuthorsByBook(ctx context.Context, bookIDs []string) (map[string][]Author, error) {
	out := make(map[string][]Author, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	query, args, err := sqliteDialect.authorsByBook(bookIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
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

type sqliteQueries struct {
	db sqlQuerier
}

const sqliteSelectBook = `
	SELECT b.id, b.title, COALESCE(b.subtitle, ''), COALESCE(b.isbn, ''), COALESCE(b.isbn13, ''),
	       b.synopsis, b.cover_url, b.publisher, b.page_count, b.language, b.date_published,
	       b.title_long, b.overview, b.excerpt, b.edition, b.binding, b.price, b.dimensions,
	       b.created_at, b.updated_at
	FROM book b`

func (q *sqliteQueries) findBook(ctx context.Context, where string, arg any) (Book, error) {
	row := q.db.QueryRowContext(ctx, sqliteSelectBook+" WHERE "+where+" LIMIT 1", arg)
	b, err := scanBook(sqliteScanner{row})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (q *sqliteQueries) GetBook(ctx context.Context, id string) (Book, error) {
	return q.findBook(ctx, "b.id = ?", id)
}

func (q *sqliteQueries) FindBookByISBN13(ctx context.Context, isbn13 string) (Book, error) {
	return q.findBook(ctx, "b.isbn13 = ?", isbn13)
}

func (q *sqliteQueries) FindBookByISBN(ctx context.Context, isbn string) (Book, error) {
	return q.findBook(ctx, "b.isbn = ?", isbn)
}

func (q *sqliteQueries) InsertBook(ctx context.Context, b *Book) (bool, error) {
	const query = `
		INSERT INTO book (id, title, subtitle, isbn, isbn13, synopsis, cover_url, publisher,
		                  page_count, language, date_published, title_long, overview, excerpt,
		                  edition, binding, price, dimensions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at`

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	row := q.db.QueryRowContext(ctx, query,
		b.ID, b.Title, nullIfEmpty(b.Subtitle), nullIfEmpty(b.ISBN), nullIfEmpty(b.ISBN13),
		b.Synopsis, b.CoverURL, b.Publisher, b.PageCount, b.Language, b.DatePublished,
		b.TitleLong, b.Overview, b.Excerpt, b.Edition, b.Binding, b.Price, b.Dimensions,
	)
	err := sqliteScanner{row}.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert book: %w", err)
	}
	return true, nil
}

func (q *sqliteQueries) EnsureAuthor(ctx context.Context, name string) (Author, error) {
	const (
		selectSQL = `SELECT id, name FROM author WHERE name = ?`
		insertSQL = `INSERT INTO author (id, name) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`
	)
	var a Author
	err := q.ensure(ctx, selectSQL, insertSQL, name, &a.ID, &a.Name)
	return a, err
}

func (q *sqliteQueries) EnsureGenre(ctx context.Context, name string) (Genre, error) {
	const (
		selectSQL = `SELECT id, name, parent_id FROM genre WHERE name = ?`
		insertSQL = `INSERT INTO genre (id, name) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`
	)
	var g Genre
	err := q.ensure(ctx, selectSQL, insertSQL, name, &g.ID, &g.Name, &g.ParentID)
	return g, err
}

func (q *sqliteQueries) ensure(ctx context.Context, selectSQL, insertSQL, name string, dest ...any) error {
	err := q.db.QueryRowContext(ctx, selectSQL, name).Scan(dest...)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, err := q.db.ExecContext(ctx, insertSQL, uuid.NewString(), name); err != nil {
		return fmt.Errorf("insert %q: %w", name, err)
	}
	return q.db.QueryRowContext(ctx, selectSQL, name).Scan(dest...)
}

func (q *sqliteQueries) LinkAuthor(ctx context.Context, bookID, authorID string, position int) error {
	const query = `
		INSERT INTO book_author (book_id, author_id, position)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`
	_, err := q.db.ExecContext(ctx, query, bookID, authorID, position)
	return err
}

func (q *sqliteQueries) LinkGenre(ctx context.Context, bookID, genreID string, position int) error {
	const query = `
		INSERT INTO book_genre (book_id, genre_id, position)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`
	_, err := q.db.ExecContext(ctx, query, bookID, genreID, position)
	return err
}

func (q *sqliteQueries) AuthorsOf(ctx context.Context, bookID string) ([]Author, error) {
	const query = `
		SELECT a.id, a.name
		FROM book_author ba
		JOIN author a ON a.id = ba.author_id
		WHERE ba.book_id = ?
		ORDER BY ba.position, a.name`
	rows, err := q.db.QueryContext(ctx, query, bookID)
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

func (q *sqliteQueries) GenresOf(ctx context.Context, bookID string) ([]Genre, error) {
	const query = `
		SELECT g.id, g.name, g.parent_id
		FROM book_genre bg
		JOIN genre g ON g.id = bg.genre_id
		WHERE bg.book_id = ?
		ORDER BY bg.position, g.name`
	rows, err := q.db.QueryContext(ctx, query, bookID)
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

// sqliteScanner lets timestamp columns scan into time.Time whether the driver
// reports them as time.Time or as text.
type sqliteScanner struct {
	rowScanner
}

func (s sqliteScanner) Scan(dest ...any) error {
	for i, d := range dest {
		if t, ok := d.(*time.Time); ok {
			dest[i] = &sqliteTime{t: t}
		}
	}
	return s.rowScanner.Scan(dest...)
}

var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

type sqliteTime struct {
	t *time.Time
}

func (s *sqliteTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.t = time.Time{}
		return nil
	case time.Time:
		*s.t = v
		return nil
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("sqlite: cannot scan %T into time.Time", src)
	}
}

func (s *sqliteTime) parse(v string) error {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			*s.t = t
			return nil
		}
	}
	return fmt.Errorf("sqlite: unrecognized timestamp %q", v)
}
