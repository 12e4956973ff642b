package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklibrary/internal/catalog"
	"booklibrary/internal/ingest"
	"booklibrary/internal/platform/isbndb"
	"booklibrary/internal/search"
	"booklibrary/internal/testutil"
)

func newStack(t *testing.T) (*search.Orchestrator, *catalog.SQLiteRepo) {
	t.Helper()
	repo := testutil.NewSQLiteRepo(t)
	srv := testutil.NewISBNdbServer(t, testutil.Dune, testutil.DuneMessiah, testutil.Hobbit)
	client := isbndb.NewClient(isbndb.Config{BaseURL: srv.URL, APIKey: "test-key"}, srv.Client(), nil)

	searcher := catalog.NewSearcher(repo, catalog.DefaultSearchConfig())
	importer := ingest.NewService(repo, nil)
	return search.NewOrchestrator(searcher, client, importer, repo, nil), repo
}

func externalTitles(res search.ExternalResult) []string {
	out := make([]string, 0, len(res.External))
	for _, b := range res.External {
		out = append(out, b.Title)
	}
	return out
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("imported book is found by title with its author", func(t *testing.T) {
		orch, _ := newStack(t)

		_, err := orch.ImportBook(ctx, nil, "9780441172719")
		require.NoError(t, err)

		res, err := orch.Search(ctx, search.NewSession(""), "Dune", 20)
		require.NoError(t, err)
		require.Len(t, res.Local, 1)
		assert.Equal(t, "Dune", res.Local[0].Title)
		require.Len(t, res.Local[0].Authors, 1)
		assert.Equal(t, "Frank Herbert", res.Local[0].Authors[0].Name)
		assert.False(t, res.HasExternalResults)
	})

	t.Run("empty catalog hints at external search", func(t *testing.T) {
		orch, _ := newStack(t)

		res, err := orch.Search(ctx, nil, "Dune", 20)
		require.NoError(t, err)
		assert.Empty(t, res.Local)
		assert.True(t, res.HasExternalResults)
	})

	t.Run("import is idempotent across isbn formats", func(t *testing.T) {
		orch, repo := newStack(t)
		sess := search.NewSession("")

		first, err := orch.ImportBook(ctx, sess, "978-0-547-92821-0")
		require.NoError(t, err)
		second, err := orch.ImportBook(ctx, sess, "9780547928210")
		require.NoError(t, err)
		third, err := orch.ImportBook(ctx, sess, "054792822X")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.ID, third.ID)
		assert.Equal(t, "There and Back Again", first.Subtitle)
		assert.Len(t, first.Genres, ingest.MaxGenres)
		assert.Equal(t, "Fantasy", first.Genres[0].Name)

		stored, err := repo.GetBook(ctx, first.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Authors, 1)
		assert.Len(t, stored.Genres, ingest.MaxGenres)

		res, err := orch.Search(ctx, sess, "Hobbit", 20)
		require.NoError(t, err)
		assert.Len(t, res.Local, 1)
	})

	t.Run("author search strips dots", func(t *testing.T) {
		orch, _ := newStack(t)
		_, err := orch.ImportBook(ctx, nil, "9780547928210")
		require.NoError(t, err)

		for _, q := range []string{"Tolkien", "J.R.R.", "JRR"} {
			res, err := orch.Search(ctx, nil, q, 20)
			require.NoError(t, err, q)
			require.Len(t, res.Local, 1, q)
			assert.Equal(t, "The Hobbit", res.Local[0].Title, q)
		}
	})

	t.Run("external search hides what the local search showed", func(t *testing.T) {
		orch, _ := newStack(t)
		_, err := orch.ImportBook(ctx, nil, "9780441172719")
		require.NoError(t, err)

		sess := search.NewSession("")
		_, err = orch.Search(ctx, sess, "Dune", 20)
		require.NoError(t, err)

		ext, err := orch.SearchExternal(ctx, sess, "dune", 20)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune Messiah"}, externalTitles(ext))
		assert.Empty(t, ext.AlreadyAdded)

		_, err = orch.ImportBook(ctx, sess, "9780593098233")
		require.NoError(t, err)
		local, err := orch.Search(ctx, sess, "Dune", 20)
		require.NoError(t, err)
		assert.Len(t, local.Local, 2)

		ext, err = orch.SearchExternal(ctx, sess, "dune", 20)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune Messiah"}, externalTitles(ext))
		assert.Equal(t, []string{"9780593098233"}, ext.AlreadyAdded)

		other, err := orch.SearchExternal(ctx, search.NewSession(""), "dune", 20)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune", "Dune Messiah"}, externalTitles(other))
	})

	t.Run("unknown isbn", func(t *testing.T) {
		orch, _ := newStack(t)

		_, err := orch.ImportBook(ctx, nil, "9780000000002")
		assert.ErrorIs(t, err, search.ErrNotFound)
	})
}
