package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateToken     = errors.New("token already exists")
	ErrAlreadyRegistered  = errors.New("already registered for event")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)

// ValidationError reports malformed or missing input. Fields maps a JSON
// field name to its messages; it is empty for request-level failures.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

// NewFieldError returns a ValidationError for a single field.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{
		Message: "Invalid input.",
		Fields:  map[string][]string{field: {message}},
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(e.Message)
	for _, name := range names {
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[name], " "))
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
