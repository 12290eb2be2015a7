package form

import (
	"strconv"
	"strings"

	"github.com/desertthunder/personas/internal/shared"
)

// validator collects one message per field through a chainable API.
type validator struct {
	fields map[string]string
}

func newValidator() *validator {
	return &validator{fields: map[string]string{}}
}

// Required fails if the trimmed value is empty.
func (v *validator) Required(field, value string) *validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// PositiveInt fails unless value parses as an integer greater than zero.
func (v *validator) PositiveInt(field, value string) *validator {
	value = strings.TrimSpace(value)
	if value == "" {
		return v
	}
	if n, err := strconv.Atoi(value); err != nil || n <= 0 {
		v.add(field, "Must be a positive whole number")
	}
	return v
}

// OneOf fails if a non-empty value is not in allowed.
func (v *validator) OneOf(field, value string, allowed func(string) bool, message string) *validator {
	if strings.TrimSpace(value) != "" && !allowed(value) {
		v.add(field, message)
	}
	return v
}

// Custom adds message for field if failed is true.
func (v *validator) Custom(field string, failed bool, message string) *validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [*shared.ValidationError] if any rule failed, or nil.
func (v *validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &shared.ValidationError{Fields: v.fields}
}

// add keeps only the first failure per field.
func (v *validator) add(field, message string) {
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}
