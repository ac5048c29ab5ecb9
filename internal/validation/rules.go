package validation

// Rule checks one field of a candidate T. Check may normalise the candidate in place
// and returns a non-nil error carrying the user-facing message on failure.
type Rule[T any] struct {
	Field string
	Check func(candidate *T) error
}

// Run applies rules in order. Every rule runs, except that a field stops being checked
// after its first failure, so each field reports at most one message.
func Run[T any](candidate *T, rules []Rule[T]) Errors {
	errs := Errors{}
	for _, rule := range rules {
		if errs.Has(rule.Field) {
			continue
		}
		if err := rule.Check(candidate); err != nil {
			errs.Add(rule.Field, err.Error())
		}
	}
	return errs
}
