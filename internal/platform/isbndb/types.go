package isbndb

import (
	"bytes"
	"encoding/json"
)

// bookResponse is the body of GET /book/{isbn}.
type bookResponse struct {
	Book wireBook `json:"book"`
}

// booksResponse is the body of GET /books/{query}.
type booksResponse struct {
	Total int        `json:"total"`
	Books []wireBook `json:"books" validate:"dive"`
}

type wireBook struct {
	Title         string     `json:"title" validate:"required"`
	TitleLong     string     `json:"title_long"`
	ISBN          string     `json:"isbn" validate:"required_without=ISBN13"`
	ISBN13        string     `json:"isbn13" validate:"required_without=ISBN"`
	Publisher     string     `json:"publisher"`
	Language      string     `json:"language"`
	DatePublished string     `json:"date_published"`
	Edition       flexString `json:"edition"`
	Binding       string     `json:"binding"`
	Pages         *int       `json:"pages" validate:"omitempty,gte=0"`
	Dimensions    string     `json:"dimensions"`
	MSRP          flexString `json:"msrp"`
	Image         string     `json:"image"`
	ImageOriginal string     `json:"image_original"`
	Overview      string     `json:"overview"`
	Synopsis      string     `json:"synopsis"`
	Excerpt       string     `json:"excerpt"`
	Authors       []string   `json:"authors"`
	Subjects      []string   `json:"subjects"`
}

// flexString accepts a JSON string or number; the API is inconsistent about
// msrp and edition.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
