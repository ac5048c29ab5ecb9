package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	ErrRequired = errors.New("this field is required")
	ErrBlank    = errors.New("this field may not be blank")
	ErrNull     = errors.New("this field may not be null")

	validate = validator.New()
)

// Required reports the standard message for a field that is absent, null or blank.
func Required(o Optional[string]) error {
	switch {
	case !o.Set:
		return ErrRequired
	case o.Null:
		return ErrNull
	case strings.TrimSpace(o.Value) == "":
		return ErrBlank
	}
	return nil
}

// Text trims value and checks its length in runes. A zero max disables the upper bound.
func Text(value string, min, max int) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	if n < min {
		return "", fmt.Errorf("ensure this field has at least %d characters", min)
	}
	if max > 0 && n > max {
		return "", fmt.Errorf("ensure this field has no more than %d characters", max)
	}
	return value, nil
}

// Digits strips everything but 0-9 and requires between min and max digits.
func Digits(value string, min, max int) (string, error) {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < min || len(digits) > max {
		return "", fmt.Errorf("enter a valid phone number with %d to %d digits", min, max)
	}
	return digits, nil
}

// Email trims, lower-cases and validates an address of at most max runes.
func Email(value string, max int) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", fmt.Errorf("ensure this field has no more than %d characters", max)
	}
	if err := validate.Var(value, "required,email"); err != nil {
		return "", errors.New("enter a valid email address")
	}
	return value, nil
}

// LettersAndSpaces accepts only unicode letters and spaces.
func LettersAndSpaces(value string) error {
	for _, r := range value {
		if !unicode.IsLetter(r) && r != ' ' {
			return errors.New("this field may only contain letters and spaces")
		}
	}
	return nil
}

// OptionalText normalises an optional text field. Blank or null values become nil.
func OptionalText(o Optional[string], max int) (*string, error) {
	if !o.Present() {
		return nil, nil
	}
	value, err := Text(o.Value, 0, max)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	return &value, nil
}
