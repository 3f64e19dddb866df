// Package validation wraps go-playground/validator and converts its errors
// into field-level application validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "commerce-service/pkg/errors"
)

// New returns a validator that reports json field names.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates s and returns a *errors.ValidationError on failure.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return Format(err)
	}
	return nil
}

// Format converts validator.ValidationErrors into a human-readable validation error.
func Format(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "email":
			fields[field] = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			if isNumeric(e.Kind()) {
				fields[field] = fmt.Sprintf("%s must be at least %s", field, e.Param())
			} else {
				fields[field] = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
			}
		case "max":
			if isNumeric(e.Kind()) {
				fields[field] = fmt.Sprintf("%s must be at most %s", field, e.Param())
			} else {
				fields[field] = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
			}
		case "gt", "gte":
			fields[field] = fmt.Sprintf("%s must be greater than %s", field, e.Param())
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of [%s]", field, e.Param())
		default:
			fields[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	messages := make([]string, 0, len(fields))
	for _, m := range fields {
		messages = append(messages, m)
	}
	sort.Strings(messages)

	return apperrors.NewFieldsValidationError(strings.Join(messages, ", "), fields)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
