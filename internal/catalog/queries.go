package catalog

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"booklibrary/internal/textnorm"
)

// dialect captures the SQL differences between Postgres and SQLite for the
// search stages. Both expose a similarity(text, text) function: pg_trgm on
// Postgres, textnorm.Similarity registered on SQLite.
//
// SQLite LIKE only folds ASCII case, so on SQLite both sides of a pattern
// match go through the registered fold function first.
type dialect struct {
	placeholder sq.PlaceholderFormat
	like        string
	greatest    string
	fold        string
}

var (
	postgresDialect = dialect{placeholder: sq.Dollar, like: "ILIKE", greatest: "GREATEST"}
	sqliteDialect   = dialect{placeholder: sq.Question, like: "LIKE", greatest: "MAX", fold: "fold"}
)

var bookColumns = []string{
	"b.id",
	"b.title",
	"COALESCE(b.subtitle, '') AS subtitle",
	"COALESCE(b.isbn, '') AS isbn",
	"COALESCE(b.isbn13, '') AS isbn13",
	"b.synopsis",
	"b.cover_url",
	"b.publisher",
	"b.page_count",
	"b.language",
	"b.date_published",
	"b.title_long",
	"b.overview",
	"b.excerpt",
	"b.edition",
	"b.binding",
	"b.price",
	"b.dimensions",
	"b.created_at",
	"b.updated_at",
}

const authorMatchSQL = `EXISTS (
	SELECT 1 FROM book_author ba
	JOIN author a ON a.id = ba.author_id
	WHERE ba.book_id = b.id AND (%s))`

func (d dialect) likeExpr(column string) string {
	if d.fold == "" {
		return column + " " + d.like + ` ? ESCAPE '\'`
	}
	return fmt.Sprintf(`%s(%s) %s %s(?) ESCAPE '\'`, d.fold, column, d.like, d.fold)
}

func (d dialect) titleStage(q StageQuery) sq.SelectBuilder {
	pattern := textnorm.ContainsPattern(q.Query)
	return sq.Select(bookColumns...).
		From("book b").
		Where(sq.Or{
			sq.Expr(d.likeExpr("b.title"), pattern),
			sq.Expr(d.likeExpr("b.subtitle"), pattern),
		}).
		OrderBy("b.title", "b.id").
		Limit(uint64(q.Limit)).
		PlaceholderFormat(d.placeholder)
}

func (d dialect) authorStage(q StageQuery) sq.SelectBuilder {
	cond := d.likeExpr("a.name")
	args := []any{textnorm.ContainsPattern(q.Query)}
	if q.Stripped != "" {
		cond += " OR " + d.likeExpr("REPLACE(a.name, '.', '')")
		args = append(args, textnorm.ContainsPattern(q.Stripped))
	}
	return sq.Select(bookColumns...).
		From("book b").
		Where(sq.Expr(fmt.Sprintf(authorMatchSQL, cond), args...)).
		OrderBy("b.title", "b.id").
		Limit(uint64(q.Limit)).
		PlaceholderFormat(d.placeholder)
}

// fuzzyStage scores every book by its best trigram similarity over title,
// subtitle and linked author names, keeping scores above the threshold.
func (d dialect) fuzzyStage(q StageQuery) sq.SelectBuilder {
	authorScore := "similarity(a.name, ?)"
	authorArgs := []any{q.Query}
	if q.Stripped != "" {
		authorScore = fmt.Sprintf("%s(similarity(a.name, ?), similarity(REPLACE(a.name, '.', ''), ?))", d.greatest)
		authorArgs = append(authorArgs, q.Stripped)
	}

	score := fmt.Sprintf(`%s(
		similarity(b.title, ?),
		similarity(COALESCE(b.subtitle, ''), ?),
		COALESCE((
			SELECT MAX(%s) FROM book_author ba
			JOIN author a ON a.id = ba.author_id
			WHERE ba.book_id = b.id
		), 0)
	) AS score`, d.greatest, authorScore)

	args := append([]any{q.Query, q.Query}, authorArgs...)
	inner := sq.Select(bookColumns...).
		Column(sq.Expr(score, args...)).
		From("book b")

	return sq.Select(append(scoredColumns(), "s.score")...).
		FromSelect(inner, "s").
		Where("s.score > ?", q.Threshold).
		OrderBy("s.score DESC", "s.id").
		Limit(uint64(q.Limit)).
		PlaceholderFormat(d.placeholder)
}

// scoredColumns lists the book columns as seen from the fuzzy subquery.
func scoredColumns() []string {
	return []string{
		"s.id", "s.title", "s.subtitle", "s.isbn", "s.isbn13", "s.synopsis", "s.cover_url",
		"s.publisher", "s.page_count", "s.language", "s.date_published", "s.title_long",
		"s.overview", "s.excerpt", "s.edition", "s.binding", "s.price", "s.dimensions",
		"s.created_at", "s.updated_at",
	}
}

func (d dialect) authorsByBook(bookIDs []string) sq.SelectBuilder {
	return sq.Select("ba.book_id", "a.id", "a.name").
		From("book_author ba").
		Join("author a ON a.id = ba.author_id").
		Where(sq.Eq{"ba.book_id": bookIDs}).
		OrderBy("ba.book_id", "ba.position", "a.name").
		PlaceholderFormat(d.placeholder)
}

// rowScanner is satisfied by pgx.Row(s) and *sql.Row(s).
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner, extra ...any) (Book, error) {
	var b Book
	dest := []any{
		&b.ID, &b.Title, &b.Subtitle, &b.ISBN, &b.ISBN13, &b.Synopsis, &b.CoverURL,
		&b.Publisher, &b.PageCount, &b.Language, &b.DatePublished, &b.TitleLong,
		&b.Overview, &b.Excerpt, &b.Edition, &b.Binding, &b.Price, &b.Dimensions,
		&b.CreatedAt, &b.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return b, err
}

// hydrate attaches linked authors and genres to b.
func hydrate(ctx context.Context, q Queries, b *Book) error {
	authors, err := q.AuthorsOf(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("authors of %s: %w", b.ID, err)
	}
	genres, err := q.GenresOf(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("genres of %s: %w", b.ID, err)
	}
	b.Authors = authors
	b.Genres = genres
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
