package catalog

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book, author or genre id does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidQuery is returned for a blank search query.
	ErrInvalidQuery = errors.New("catalog: query must not be empty")
)

// Book is a locally stored book. Authors and Genres are resolved through the
// link tables and are never stored on the row itself.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
	ISBN13        string    `json:"isbn13,omitempty"`
	Synopsis      string    `json:"synopsis,omitempty"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	PageCount     *int      `json:"page_count,omitempty"`
	Language      string    `json:"language,omitempty"`
	DatePublished string    `json:"date_published,omitempty"`
	TitleLong     string    `json:"title_long,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Edition       string    `json:"edition,omitempty"`
	Binding       string    `json:"binding,omitempty"`
	Price         string    `json:"price,omitempty"`
	Dimensions    string    `json:"dimensions,omitempty"`
	Authors       []Author  `json:"authors"`
	Genres        []Genre   `json:"genres,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Genre names are unique; ParentID links a genre into the genre tree.
type Genre struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// ExternalBook is a record from the external catalog reshaped into the local
// field set. Authors and Genres are plain names until ingestion resolves them.
type ExternalBook struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	ISBN13        string   `json:"isbn13,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	Language      string   `json:"language,omitempty"`
	DatePublished string   `json:"date_published,omitempty"`
	TitleLong     string   `json:"title_long,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Edition       string   `json:"edition,omitempty"`
	Binding       string   `json:"binding,omitempty"`
	Price         string   `json:"price,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
	Authors       []string `json:"authors"`
	Genres        []string `json:"genres"`
}

// Identifiers returns the non-empty ISBN-13 and ISBN of the book.
func (b Book) Identifiers() []string {
	return identifiers(b.ISBN13, b.ISBN)
}

// Identifiers returns the non-empty ISBN-13 and ISBN of the record.
func (e ExternalBook) Identifiers() []string {
	return identifiers(e.ISBN13, e.ISBN)
}

func identifiers(isbn13, isbn string) []string {
	out := make([]string, 0, 2)
	if isbn13 != "" {
		out = append(out, isbn13)
	}
	if isbn != "" {
		out = append(out, isbn)
	}
	return out
}
