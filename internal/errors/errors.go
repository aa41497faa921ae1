// Package errors defines the domain error taxonomy shared across services.
// Everything here is recoverable by the caller; handlers map codes to HTTP
// statuses without losing detail.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// DomainError is a stable, caller-correctable error with a machine code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ValidationError batches every field-level problem found in one request.
// It is never truncated to the first error so clients can highlight all
// offending fields at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError copies the field map so callers can keep mutating
// their own.
func NewValidationError(fields map[string]string) *ValidationError {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &ValidationError{Fields: copied}
}
