package services

import (
	"errors"
	"fmt"

	"clinical-records-server/internal/validation"
)

// requiredText validates a required text field into dst. In partial mode an absent
// field keeps the current value.
func requiredText(o validation.Optional[string], partial bool, min, max int, dst *string) error {
	if partial && !o.Set {
		return nil
	}
	if err := validation.Required(o); err != nil {
		return err
	}
	value, err := validation.Text(o.Value, min, max)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

// optionalText validates an optional text field into dst. An absent field is left alone.
func optionalText(o validation.Optional[string], max int, dst **string) error {
	if !o.Set {
		return nil
	}
	value, err := validation.OptionalText(o, max)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

// optionalPhone normalises an optional phone number into dst.
func optionalPhone(o validation.Optional[string], dst **string) error {
	if !o.Set {
		return nil
	}
	blank, err := validation.OptionalText(o, 0)
	if err != nil {
		return err
	}
	if blank == nil {
		*dst = nil
		return nil
	}
	phone, err := validation.Digits(*blank, 10, 11)
	if err != nil {
		return err
	}
	*dst = &phone
	return nil
}

// optionalEmail normalises an optional email address into dst.
func optionalEmail(o validation.Optional[string], dst **string) error {
	if !o.Set {
		return nil
	}
	blank, err := validation.OptionalText(o, 0)
	if err != nil {
		return err
	}
	if blank == nil {
		*dst = nil
		return nil
	}
	email, err := validation.Email(*blank, 100)
	if err != nil {
		return err
	}
	*dst = &email
	return nil
}

// requiredInt validates a required integer field within [min, max].
func requiredInt(o validation.Optional[int64], partial bool, min, max int64, dst *int64) error {
	switch {
	case partial && !o.Set:
		return nil
	case !o.Set:
		return validation.ErrRequired
	case o.Null:
		return validation.ErrNull
	case o.Value < min:
		return fmt.Errorf("ensure this value is greater than or equal to %d", min)
	case o.Value > max:
		return fmt.Errorf("ensure this value is less than or equal to %d", max)
	}
	*dst = o.Value
	return nil
}

var errPastDate = errors.New("consultation date cannot be in the past")
