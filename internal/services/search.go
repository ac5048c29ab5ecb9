package services

import (
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxSearchLength bounds the search term; longer terms match nothing.
const MaxSearchLength = 100

var searchPolicy = bluemonday.StrictPolicy()

// NormalizeSearch strips markup and surrounding space from a raw search term.
// ok is false when the cleaned term is too long to match anything.
func NormalizeSearch(raw string) (term string, ok bool) {
	term = html.UnescapeString(searchPolicy.Sanitize(raw))
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) > MaxSearchLength {
		return "", false
	}
	return term, true
}

// searchID reports whether the term is a record id.
func searchID(term string) (uint64, bool) {
	id, err := strconv.ParseUint(term, 10, 64)
	return id, err == nil
}

// likePattern builds a lower-cased substring pattern for LIKE ... ESCAPE '!'.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
