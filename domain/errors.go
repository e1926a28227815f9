package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by every layer. Delivery maps these onto HTTP status
// codes; repositories and usecases never return raw fiber errors.

// ValidationError reports one or more rejected input fields.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for field, msg := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = map[string]string{}
	}
	v.Fields[field] = message
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
}

func (n *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", n.Resource)
}

// RenderError wraps a failure of the PDF engine itself. Retryable.
type RenderError struct {
	Err error
}

func (r *RenderError) Error() string {
	return fmt.Sprintf("document rendering failed: %v", r.Err)
}

func (r *RenderError) Unwrap() error { return r.Err }

// StorageError wraps a fatal asset-store write failure. Asset delete failures
// during replacement are logged and swallowed, never surfaced as this.
type StorageError struct {
	Err error
}

func (s *StorageError) Error() string {
	return fmt.Sprintf("asset storage failed: %v", s.Err)
}

func (s *StorageError) Unwrap() error { return s.Err }

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
)
