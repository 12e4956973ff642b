package isbndb

import (
	"strings"

	"github.com/samber/lo"

	"booklibrary/internal/catalog"
	"booklibrary/internal/textnorm"
)

// placeholderSubject is a generic entry the API puts in subjects lists.
const placeholderSubject = "Subjects"

func normalize(w wireBook) catalog.ExternalBook {
	title := strings.TrimSpace(w.Title)
	titleLong := strings.TrimSpace(w.TitleLong)

	synopsis := strings.TrimSpace(w.Synopsis)
	if synopsis == "" {
		synopsis = strings.TrimSpace(w.Overview)
	}

	cover := strings.TrimSpace(w.Image)
	if cover == "" {
		cover = strings.TrimSpace(w.ImageOriginal)
	}

	genres := lo.Filter(textnorm.CleanList(w.Subjects), func(s string, _ int) bool {
		return s != placeholderSubject
	})

	return catalog.ExternalBook{
		Title:         title,
		Subtitle:      textnorm.DeriveSubtitle(title, titleLong),
		ISBN:          textnorm.CleanISBN(w.ISBN),
		ISBN13:        textnorm.CleanISBN(w.ISBN13),
		Synopsis:      synopsis,
		CoverURL:      cover,
		Publisher:     strings.TrimSpace(w.Publisher),
		PageCount:     w.Pages,
		Language:      strings.TrimSpace(w.Language),
		DatePublished: strings.TrimSpace(w.DatePublished),
		TitleLong:     titleLong,
		Overview:      strings.TrimSpace(w.Overview),
		Excerpt:       strings.TrimSpace(w.Excerpt),
		Edition:       strings.TrimSpace(string(w.Edition)),
		Binding:       strings.TrimSpace(w.Binding),
		Price:         strings.TrimSpace(string(w.MSRP)),
		Dimensions:    strings.TrimSpace(w.Dimensions),
		Authors:       textnorm.CleanList(w.Authors),
		Genres:        genres,
	}
}
