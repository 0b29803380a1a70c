// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is a single field failure.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the parameter name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the tag parameter (e.g., "100" for "max=100").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the rejected value.
func (e *ValidationError) Value() interface{} {
	return e.value
}

func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError collects the field failures of one request.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the field failures.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for i := range ve.errors {
		messages = append(messages, ve.errors[i].Error())
	}
	return strings.Join(messages, "; ")
}

// APIError mirrors models.APIError without importing it.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ErrCodeValidation is the API error code of every validation failure.
const ErrCodeValidation = "VALIDATION_ERROR"

// ToAPIError converts the failures to the API error format.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: ErrCodeValidation, Message: "Validation failed"}
	case 1:
		err := ve.errors[0]
		return &APIError{
			Code:    ErrCodeValidation,
			Message: err.message,
			Details: map[string]interface{}{
				"field": err.field,
				"tag":   err.tag,
				"value": err.value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errors))
	messages := make([]string, 0, len(ve.errors))
	for i, err := range ve.errors {
		fields[i] = map[string]interface{}{
			"field":   err.field,
			"tag":     err.tag,
			"message": err.message,
		}
		messages = append(messages, err.message)
	}
	return &APIError{
		Code:    ErrCodeValidation,
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// settableStatuses are the statuses a client may assign. NEW is reserved
// for freshly generated recommendations.
var settableStatuses = map[string]bool{
	"VIEWED":   true,
	"ACCEPTED": true,
	"REJECTED": true,
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("query"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		//nolint:errcheck // tag name and func are static
		validate.RegisterValidation("recstatus", func(fl validator.FieldLevel) bool {
			return settableStatuses[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
		})
	})
	return validate
}

// ValidateStruct validates s. It returns nil when s is valid.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{{field: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

// errorMessageTemplates maps tags to messages without a parameter.
var errorMessageTemplates = map[string]string{
	"required":  "%s is required",
	"recstatus": "%s must be one of VIEWED, ACCEPTED, REJECTED",
	"ltefield":  "%s exceeds the configured maximum",
}

// errorMessageWithParam maps tags to messages that include the parameter.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
