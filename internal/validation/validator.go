// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the API error code for failed validation.
const ErrorCode = "VALIDATION_FAILED"

var (
	// validate is the process-wide validator. validator.Validate caches
	// struct metadata and is safe for concurrent use.
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one failed rule.
//
// Field is the JSON path of the offending value, such as
// "columns[0].semantic_type". Tag is the failed rule and Param its
// argument, e.g. tag "lte" with param "1". Value echoes the rejected input.
type FieldError struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Param   string      `json:"param,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// RequestValidationError collects every failed rule of a request, not just
// the first, so a client can fix a body in one round trip. The API layer
// renders it as a 400 with code VALIDATION_FAILED and the fields under
// error.details.
type RequestValidationError struct {
	Fields []FieldError
}

// Error joins the field messages with "; ".
func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Details returns the fields in the shape used by API error details.
func (e *RequestValidationError) Details() map[string]interface{} {
	return map[string]interface{}{"fields": e.Fields}
}

// GetValidator returns the shared validator.
//
// It is created on first use with WithRequiredStructEnabled. Field names in
// errors follow the json tags, so messages match the request body; fields
// tagged json:"-" are reported without a name.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct checks s against its validate tags. It returns nil when s
// is valid.
//
// Errors that are not per-field failures (for example a nil or non-struct
// argument) are reported as a single "body" field with tag "invalid".
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//		rw.ValidationError(verr)
//		return
//	}
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []FieldError{{
			Field:   "body",
			Tag:     "invalid",
			Message: err.Error(),
		}}}
	}

	out := &RequestValidationError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace:
// "TrainRequest.cohorts[0].retention[3]" becomes "cohorts[0].retention[3]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// plainMessages are templates for rules without a parameter. %s is the
// field path.
var plainMessages = map[string]string{
	"required": "%s is required",
	"number":   "%s must be a number",
}

// paramMessages are templates for rules with a parameter: field path,
// then the rule's param.
var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// message renders a human readable message for fe. min and max read
// differently for strings, collections and numbers; unknown tags get a
// generic message naming the rule.
func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	if tmpl, ok := plainMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}

	switch fe.Tag() {
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", field, bound, fe.Param())
		case reflect.Slice, reflect.Map, reflect.Array:
			return fmt.Sprintf("%s must contain %s %s items", field, bound, fe.Param())
		default:
			return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
		}
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
