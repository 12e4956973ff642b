// Package textnorm holds the text heuristics shared by search and ingestion:
// dotted-initial stripping, subtitle derivation, list cleaning and ISBN cleanup.
package textnorm

import (
	"strings"
	"unicode"
)

// StripDots removes every '.' so that "J.R.R." and "JRR" compare equal.
func StripDots(s string) string {
	return strings.ReplaceAll(s, ".", "")
}

// DeriveSubtitle returns the subtitle implied by a long title.
//
// When the long title extends the short one, the remainder (without a leading
// ':' or '-') is the subtitle. A long title unrelated to the short one is used
// whole. Identical or missing long titles yield "".
func DeriveSubtitle(title, titleLong string) string {
	title = strings.TrimSpace(title)
	titleLong = strings.TrimSpace(titleLong)
	if titleLong == "" || titleLong == title {
		return ""
	}
	if !strings.HasPrefix(titleLong, title) {
		return titleLong
	}
	rest := strings.TrimSpace(titleLong[len(title):])
	if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "-") {
		rest = rest[1:]
	}
	return strings.TrimSpace(rest)
}

// CleanList trims every entry and drops the blank ones, keeping order.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// CleanISBN drops separators and anything else that is not a letter or digit.
// A trailing check character 'x' is upper-cased.
func CleanISBN(isbn string) string {
	var b strings.Builder
	b.Grow(len(isbn))
	for _, r := range isbn {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// EscapeLike escapes LIKE wildcards so the value matches literally with
// ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern builds a %...% LIKE pattern for a substring match.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
