package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), ":memory:", 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func insertTestBook(t *testing.T, repo Store, b Book, authors ...string) Book {
	t.Helper()
	ctx := context.Background()
	err := repo.InTx(ctx, func(q Queries) error {
		inserted, err := q.InsertBook(ctx, &b)
		if err != nil {
			return err
		}
		require.True(t, inserted, "book %q already exists", b.Title)
		for i, name := range authors {
			a, err := q.EnsureAuthor(ctx, name)
			if err != nil {
				return err
			}
			if err := q.LinkAuthor(ctx, b.ID, a.ID, i); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return b
}

func seedLibrary(t *testing.T, repo Store) {
	t.Helper()
	insertTestBook(t, repo, Book{Title: "Dune", ISBN13: "9780441172719"}, "Frank Herbert")
	insertTestBook(t, repo, Book{Title: "Dune Messiah", ISBN13: "9780593098233"}, "Frank Herbert")
	insertTestBook(t, repo, Book{Title: "The Hobbit", Subtitle: "There and Back Again", ISBN13: "9780547928210"}, "J.R.R. Tolkien")
	insertTestBook(t, repo, Book{Title: "Dun Cow", ISBN: "0061125636"}, "Walter Wangerin")
	insertTestBook(t, repo, Book{Title: "100% Pure", ISBN13: "9781111111111"})
}

func titles(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestSQLiteRepo_Search(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLite(t)
	seedLibrary(t, repo)
	s := NewSearcher(repo, DefaultSearchConfig())

	t.Run("exact title before fuzzy match", func(t *testing.T) {
		got, err := s.Search(ctx, "Dune", 10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(got), 3)
		assert.Equal(t, []string{"Dune", "Dune Messiah", "Dun Cow"}, titles(got)[:3])
		require.Len(t, got[0].Authors, 1)
		assert.Equal(t, "Frank Herbert", got[0].Authors[0].Name)
	})

	t.Run("author match", func(t *testing.T) {
		got, err := s.Search(ctx, "Frank Herbert", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune", "Dune Messiah"}, titles(got))
	})

	t.Run("dotless initials match dotted author", func(t *testing.T) {
		for _, q := range []string{"JRR", "jrr tolkien", "J.R.R."} {
			got, err := s.Search(ctx, q, 10)
			require.NoError(t, err, q)
			require.NotEmpty(t, got, q)
			assert.Equal(t, "The Hobbit", got[0].Title, q)
			assert.Equal(t, "J.R.R. Tolkien", got[0].Authors[0].Name, q)
		}
	})

	t.Run("subtitle match", func(t *testing.T) {
		got, err := s.Search(ctx, "back again", 10)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "The Hobbit", got[0].Title)
	})

	t.Run("misspelled author found by similarity", func(t *testing.T) {
		got, err := s.Search(ctx, "Frank Herbrt", 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Dune", "Dune Messiah"}, titles(got))
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		got, err := s.Search(ctx, "100%", 10)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "100% Pure", got[0].Title)
		assert.NotNil(t, got[0].Authors)
		assert.Empty(t, got[0].Authors)
	})

	t.Run("no duplicates and limit honored", func(t *testing.T) {
		got, err := s.Search(ctx, "Dune", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune", "Dune Messiah"}, titles(got))

		seen := map[string]bool{}
		all, err := s.Search(ctx, "Frank Herbert Dune", 100)
		require.NoError(t, err)
		for _, b := range all {
			assert.False(t, seen[b.ID], "duplicate %s", b.ID)
			seen[b.ID] = true
		}
	})

	t.Run("nothing matched", func(t *testing.T) {
		got, err := s.Search(ctx, "zzzz", 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestSQLiteRepo_PatternStagesFoldUnicode(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLite(t)
	insertTestBook(t, repo, Book{Title: "Émile, ou De l'éducation", ISBN13: "9782080700179"}, "Jean-Jacques Rousseau")
	insertTestBook(t, repo, Book{Title: "Germinal", ISBN13: "9782253004226"}, "Émile Zola")

	got, err := repo.MatchTitle(ctx, StageQuery{Query: "émile", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Émile, ou De l'éducation"}, titles(got))

	got, err = repo.MatchTitle(ctx, StageQuery{Query: "L'ÉDUCATION", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Émile, ou De l'éducation"}, titles(got))

	got, err = repo.MatchAuthor(ctx, StageQuery{Query: "émile zola", Stripped: "émile zola", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Germinal"}, titles(got))
}

func TestSQLiteRepo_Queries(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLite(t)

	book := insertTestBook(t, repo, Book{Title: "Dune", ISBN13: "9780441172719", ISBN: "0441172717"}, "Frank Herbert", "Brian Herbert")
	assert.NotEmpty(t, book.ID)
	assert.False(t, book.CreatedAt.IsZero())

	t.Run("insert conflict is reported, not an error", func(t *testing.T) {
		err := repo.InTx(ctx, func(q Queries) error {
			dup := Book{Title: "Dune (again)", ISBN13: "9780441172719"}
			inserted, err := q.InsertBook(ctx, &dup)
			require.NoError(t, err)
			assert.False(t, inserted)

			dup = Book{Title: "Dune (isbn10)", ISBN: "0441172717"}
			inserted, err = q.InsertBook(ctx, &dup)
			require.NoError(t, err)
			assert.False(t, inserted)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("books without isbns do not conflict", func(t *testing.T) {
		err := repo.InTx(ctx, func(q Queries) error {
			for range 2 {
				b := Book{Title: "Anonymous"}
				inserted, err := q.InsertBook(ctx, &b)
				require.NoError(t, err)
				assert.True(t, inserted)
			}
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("ensure and link are idempotent", func(t *testing.T) {
		err := repo.InTx(ctx, func(q Queries) error {
			a1, err := q.EnsureAuthor(ctx, "Frank Herbert")
			require.NoError(t, err)
			a2, err := q.EnsureAuthor(ctx, "Frank Herbert")
			require.NoError(t, err)
			assert.Equal(t, a1.ID, a2.ID)

			require.NoError(t, q.LinkAuthor(ctx, book.ID, a1.ID, 5))

			g, err := q.EnsureGenre(ctx, "Science Fiction")
			require.NoError(t, err)
			assert.Nil(t, g.ParentID)
			require.NoError(t, q.LinkGenre(ctx, book.ID, g.ID, 0))
			require.NoError(t, q.LinkGenre(ctx, book.ID, g.ID, 0))
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("lookups", func(t *testing.T) {
		err := repo.InTx(ctx, func(q Queries) error {
			b, err := q.FindBookByISBN13(ctx, "9780441172719")
			require.NoError(t, err)
			assert.Equal(t, book.ID, b.ID)

			b, err = q.FindBookByISBN(ctx, "0441172717")
			require.NoError(t, err)
			assert.Equal(t, book.ID, b.ID)

			_, err = q.FindBookByISBN13(ctx, "0000000000000")
			assert.ErrorIs(t, err, ErrNotFound)

			authors, err := q.AuthorsOf(ctx, book.ID)
			require.NoError(t, err)
			require.Len(t, authors, 2)
			assert.Equal(t, "Frank Herbert", authors[0].Name)
			assert.Equal(t, "Brian Herbert", authors[1].Name)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("get book", func(t *testing.T) {
		got, err := repo.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
		assert.Len(t, got.Authors, 2)
		require.Len(t, got.Genres, 1)
		assert.Equal(t, "Science Fiction", got.Genres[0].Name)

		_, err = repo.GetBook(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rollback on error", func(t *testing.T) {
		err := repo.InTx(ctx, func(q Queries) error {
			b := Book{Title: "Ghost", ISBN13: "9999999999999"}
			if _, err := q.InsertBook(ctx, &b); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		err = repo.InTx(ctx, func(q Queries) error {
			_, err := q.FindBookByISBN13(ctx, "9999999999999")
			assert.ErrorIs(t, err, ErrNotFound)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
