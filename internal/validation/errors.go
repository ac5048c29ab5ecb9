package validation

import (
	"sort"
	"strings"
)

// NonFieldErrors is the key used for failures that belong to the record as a whole.
const NonFieldErrors = "non_field_errors"

// Errors maps a field name to its failure messages.
type Errors map[string][]string

// Add records msg under field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field already failed.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Empty reports whether no failure was recorded.
func (e Errors) Empty() bool {
	return len(e) == 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return strings.Join(parts, ", ")
}
