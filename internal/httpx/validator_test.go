package httpx

import (
	"strings"
	"testing"
)

type importInput struct {
	ISBN  string `json:"isbn" validate:"required,isbn"`
	Limit int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	for _, isbn := range []string{"9780547928210", "978-0-547-92821-0", "054792822X", "0 547 92822 x"} {
		if errs := ValidateStruct(importInput{ISBN: isbn}); len(errs) != 0 {
			t.Errorf("Expected %q to be valid, got %v", isbn, errs)
		}
	}
}

func TestValidateStruct_Required(t *testing.T) {
	errs := ValidateStruct(importInput{})
	if len(errs) != 1 {
		t.Fatalf("Expected one error, got %v", errs)
	}
	if errs[0].Field != "isbn" {
		t.Errorf("Expected json field name, got %q", errs[0].Field)
	}
	if !strings.Contains(errs[0].Message, "required") {
		t.Errorf("Expected required message, got %s", errs[0].Message)
	}
}

func TestValidateStruct_InvalidISBN(t *testing.T) {
	for _, isbn := range []string{"123", "97805479282100", "05479282XX", "abcdefghij"} {
		errs := ValidateStruct(importInput{ISBN: isbn})
		if len(errs) != 1 || !strings.Contains(errs[0].Message, "valid ISBN") {
			t.Errorf("Expected ISBN error for %q, got %v", isbn, errs)
		}
	}
}

func TestValidateStruct_Range(t *testing.T) {
	errs := ValidateStruct(importInput{ISBN: "9780547928210", Limit: 500})
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "between") {
		t.Errorf("Expected range error, got %v", errs)
	}
}
