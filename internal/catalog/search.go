package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"booklibrary/internal/textnorm"
)

const (
	DefaultSimilarityThreshold = 0.2
	MaxSearchLimit             = 100
)

// SearchConfig tunes the fuzzy stage.
type SearchConfig struct {
	// SimilarityThreshold is the trigram score a fuzzy match must exceed.
	SimilarityThreshold float64
	// FuzzyOnlyWhenShort runs the fuzzy stage only when the exact and author
	// stages together found fewer rows than the limit.
	FuzzyOnlyWhenShort bool
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		SimilarityThreshold: DefaultSimilarityThreshold,
		FuzzyOnlyWhenShort:  true,
	}
}

// Searcher runs the ranked local search: title and subtitle substring
// matches first, then author matches, then trigram similarity.
type Searcher struct {
	repo SearchRepository
	cfg  SearchConfig
}

func NewSearcher(repo SearchRepository, cfg SearchConfig) *Searcher {
	return &Searcher{repo: repo, cfg: cfg}
}

// Search returns at most limit books, each carrying its authors. An empty
// result is not an error.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}
	limit = clampLimit(limit)

	q := StageQuery{
		Query:     query,
		Threshold: s.cfg.SimilarityThreshold,
		Limit:     limit,
	}
	if stripped := strings.TrimSpace(textnorm.StripDots(query)); stripped != "" {
		q.Stripped = stripped
	}

	byTitle, err := s.repo.MatchTitle(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("title stage: %w", err)
	}
	byAuthor, err := s.repo.MatchAuthor(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("author stage: %w", err)
	}

	var fuzzy []Book
	if !s.cfg.FuzzyOnlyWhenShort || len(byTitle)+len(byAuthor) < limit {
		fuzzy, err = s.repo.MatchFuzzy(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("fuzzy stage: %w", err)
		}
	}

	books := mergeStages(limit, byTitle, byAuthor, fuzzy)
	if len(books) == 0 {
		return []Book{}, nil
	}

	authors, err := s.repo.AuthorsByBook(ctx, lo.Map(books, func(b Book, _ int) string { return b.ID }))
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	for i := range books {
		books[i].Authors = authors[books[i].ID]
		if books[i].Authors == nil {
			books[i].Authors = []Author{}
		}
	}
	return books, nil
}

// mergeStages concatenates stages in order, keeps the first occurrence of
// each id and truncates to limit.
func mergeStages(limit int, stages ...[]Book) []Book {
	merged := lo.UniqBy(lo.Flatten(stages), func(b Book) string { return b.ID })
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}
