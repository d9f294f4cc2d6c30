package errorutil

import (
	"fmt"
	"strings"
)

// ValidationError represents a collection of validation failures
type ValidationError struct {
	Context string
	Errors  []FieldError
}

// FieldError represents a single field validation failure
type FieldError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s validation failed", e.Context)
	}

	var messages []string
	for _, fieldErr := range e.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", fieldErr.Field, fieldErr.Message))
	}

	return fmt.Sprintf("%s validation failed: %s", e.Context, strings.Join(messages, "; "))
}

// ValidationBuilder accumulates field validation failures so that a single
// error reports everything wrong with a configuration at once.
type ValidationBuilder struct {
	context string
	errors  []FieldError
}

// NewValidationBuilder creates a new validation builder with context
func NewValidationBuilder(context string) *ValidationBuilder {
	return &ValidationBuilder{
		context: context,
		errors:  make([]FieldError, 0),
	}
}

// RequiredString validates that a string field is not empty
func (vb *ValidationBuilder) RequiredString(field, value string) *ValidationBuilder {
	if IsEmptyString(value) {
		vb.errors = append(vb.errors, FieldError{
			Field:   field,
			Value:   value,
			Message: "is required",
		})
	}
	return vb
}

// OneOf validates that value is one of the allowed options
func (vb *ValidationBuilder) OneOf(field, value string, options []string) *ValidationBuilder {
	if value == "" {
		return vb // Skip validation for empty strings
	}

	for _, option := range options {
		if value == option {
			return vb
		}
	}

	vb.errors = append(vb.errors, FieldError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(options, ", ")),
	})
	return vb
}

// NonNegativeInt validates that an integer field is zero or positive
func (vb *ValidationBuilder) NonNegativeInt(field string, value int) *ValidationBuilder {
	if value < 0 {
		vb.errors = append(vb.errors, FieldError{
			Field:   field,
			Value:   value,
			Message: "must be non-negative",
		})
	}
	return vb
}

// IntRange validates that an integer field falls within [min, max]
func (vb *ValidationBuilder) IntRange(field string, value, min, max int) *ValidationBuilder {
	if value < min || value > max {
		vb.errors = append(vb.errors, FieldError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("must be between %d and %d", min, max),
		})
	}
	return vb
}

// Custom allows adding custom validation with a predicate function
func (vb *ValidationBuilder) Custom(field string, value interface{}, predicate func(interface{}) bool, message string) *ValidationBuilder {
	if !predicate(value) {
		vb.errors = append(vb.errors, FieldError{
			Field:   field,
			Value:   value,
			Message: message,
		})
	}
	return vb
}

// Fail records a failure that was detected outside the builder, typically
// from compiling a pattern or resolving a format name
func (vb *ValidationBuilder) Fail(field string, value interface{}, message string) *ValidationBuilder {
	vb.errors = append(vb.errors, FieldError{
		Field:   field,
		Value:   value,
		Message: message,
	})
	return vb
}

// Build returns the validation error if any errors were collected, nil otherwise
func (vb *ValidationBuilder) Build() error {
	if len(vb.errors) == 0 {
		return nil
	}

	return &ValidationError{
		Context: vb.context,
		Errors:  vb.errors,
	}
}

// HasErrors returns true if the builder has collected any validation errors
func (vb *ValidationBuilder) HasErrors() bool {
	return len(vb.errors) > 0
}

// IsEmptyString checks if a string is empty after trimming whitespace
func IsEmptyString(s string) bool {
	return strings.TrimSpace(s) == ""
}
