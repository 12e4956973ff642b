package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"booklibrary/internal/catalog"
	"booklibrary/internal/config"
	"booklibrary/internal/ingest"
	"booklibrary/internal/logging"
)

func main() {
	synthetic := flag.Int("synthetic", 0, "Number of generated books to add after the curated set")
	flag.Parse()

	if err := run(*synthetic); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(synthetic int) error {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	repo, err := catalog.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	svc := ingest.NewService(repo, logger)
	books := append(curatedBooks(), syntheticBooks(rand.New(rand.NewSource(1)), synthetic)...)

	logger.Info("seeding catalog", "books", len(books), "driver", cfg.DBDriver)
	_, report := svc.UpsertMany(ctx, books)
	logger.Info("seed finished", "succeeded", report.Succeeded, "failed", report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d books failed", report.Failed, len(books))
	}
	return nil
}

func curatedBooks() []catalog.ExternalBook {
	return []catalog.ExternalBook{
		{Title: "Dune", ISBN: "0441172717", ISBN13: "9780441172719", Publisher: "Ace",
			Authors: []string{"Frank Herbert"}, Genres: []string{"Science Fiction", "Classics"}},
		{Title: "Dune Messiah", ISBN13: "9780593098233", Publisher: "Ace",
			Authors: []string{"Frank Herbert"}, Genres: []string{"Science Fiction"}},
		{Title: "The Hobbit", Subtitle: "There and Back Again", ISBN: "054792822X", ISBN13: "9780547928210",
			Publisher: "Mariner Books", Authors: []string{"J.R.R. Tolkien"}, Genres: []string{"Fantasy", "Classics"}},
		{Title: "The Fellowship of the Ring", ISBN13: "9780547928203", Publisher: "Mariner Books",
			Authors: []string{"J.R.R. Tolkien"}, Genres: []string{"Fantasy"}},
		{Title: "The Book of the Dun Cow", ISBN: "0061125636", Publisher: "HarperOne",
			Authors: []string{"Walter Wangerin Jr."}, Genres: []string{"Fantasy", "Allegory"}},
		{Title: "Good Omens", ISBN13: "9780060853983", Publisher: "William Morrow",
			Authors: []string{"Terry Pratchett", "Neil Gaiman"}, Genres: []string{"Fantasy", "Humor"}},
		{Title: "The Left Hand of Darkness", ISBN13: "9780441478125", Publisher: "Ace",
			Authors: []string{"Ursula K. Le Guin"}, Genres: []string{"Science Fiction"}},
	}
}

// syntheticBooks generates n filler books with fake 979 ISBN-13s.
func syntheticBooks(rng *rand.Rand, n int) []catalog.ExternalBook {
	genres := []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	publishers := []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley", "Elsevier"}

	books := make([]catalog.ExternalBook, 0, n)
	for i := 0; i < n; i++ {
		pages := 100 + rng.Intn(800)
		books = append(books, catalog.ExternalBook{
			Title:     fmt.Sprintf("%s of %s", randomWord(rng), randomWord(rng)),
			Subtitle:  fmt.Sprintf("A %s Story", randomWord(rng)),
			ISBN13:    fmt.Sprintf("979%010d", i+1),
			Publisher: publishers[rng.Intn(len(publishers))],
			PageCount: &pages,
			Synopsis:  fmt.Sprintf("A book about %s.", randomWord(rng)),
			Authors:   []string{fmt.Sprintf("%s %s", randomWord(rng), randomWord(rng))},
			Genres:    []string{genres[rng.Intn(len(genres))]},
		})
	}
	return books
}

func randomWord(rng *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rng.Intn(len(words))]
}
