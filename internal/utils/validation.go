package utils

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"clinical-records-server/internal/validation"
)

func init() {
	// Report json names rather than Go field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// FormatValidationError converts binding failures into per-field messages.
func FormatValidationError(err error) validation.Errors {
	errs := validation.Errors{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &verrs):
		for _, e := range verrs {
			errs.Add(e.Field(), tagMessage(e))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = validation.NonFieldErrors
		}
		errs.Add(field, "incorrect type, expected "+typeErr.Type.String())
	case errors.As(err, &syntaxErr):
		errs.Add(DetailKey, "malformed JSON: "+syntaxErr.Error())
	default:
		errs.Add(DetailKey, "invalid request payload: "+err.Error())
	}
	return errs
}

func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return validation.ErrRequired.Error()
	case "min":
		return "ensure this field has at least " + e.Param() + " characters"
	case "max":
		return "ensure this field has no more than " + e.Param() + " characters"
	case "email":
		return "enter a valid email address"
	default:
		return "failed on the '" + e.Tag() + "' rule"
	}
}

// BindAndValidate binds the request body to a struct and validates it.
// An empty body binds as an empty object so missing fields are reported per field.
// If binding fails, it sends a 400 response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		FieldErrors(c, FormatValidationError(err))
		return false
	}
	return true
}
