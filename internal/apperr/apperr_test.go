package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"clinical-records-server/internal/validation"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation(validation.Errors{"name": {"bad"}}).Status())
	assert.Equal(t, http.StatusBadRequest, Conflict("", "taken").Status())
	assert.Equal(t, http.StatusNotFound, NotFound("worker").Status())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("no token").Status())
	assert.Equal(t, http.StatusInternalServerError, Internal("db", errors.New("boom")).Status())
}

func TestConflict_Field(t *testing.T) {
	e := Conflict(validation.NonFieldErrors, "double booked")
	assert.Equal(t, validation.Errors{"non_field_errors": {"double booked"}}, e.Fields)

	e = Conflict("", "in use")
	assert.Nil(t, e.Fields)
	assert.Equal(t, "conflict: in use", e.Error())
}

func TestFromAndIs(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", NotFound("worker"))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindConflict))
	assert.Equal(t, KindNotFound, From(wrapped).Kind)

	cause := errors.New("connection reset")
	internal := From(cause)
	assert.Equal(t, KindInternal, internal.Kind)
	assert.ErrorIs(t, internal, cause)
}
