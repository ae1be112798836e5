package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator. Field names in errors are the
// JSON names clients send.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidationError lists every failed field of a request.
type ValidationError struct {
	Fields []string
	msgs   []string
}

func (e *ValidationError) Error() string {
	if len(e.msgs) == 0 {
		return "validation failed"
	}
	return strings.Join(e.msgs, "; ")
}

// validateStruct validates s and returns a *ValidationError on failure.
func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{msgs: []string{err.Error()}}
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, fe.Field())
		out.msgs = append(out.msgs, translateError(fe))
	}
	return out
}

// validateVar validates a single value against tag, naming it field.
func validateVar(field string, v any, tag string) error {
	err := getValidator().Var(v, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Fields: []string{field}, msgs: []string{err.Error()}}
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Fields: []string{field},
		msgs:   []string{formatMessage(field, fe.Tag(), fe.Param())},
	}
}

func translateError(fe validator.FieldError) string {
	return formatMessage(fe.Field(), fe.Tag(), fe.Param())
}

func formatMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte", "min":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte", "max":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
