package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no article matches the given identifier.
var ErrNotFound = errors.New("article not found")

// ValidationError reports missing or malformed request fields.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// AuthError is returned when the admin credential is absent or wrong.
type AuthError struct {
	Missing bool
}

func (e *AuthError) Error() string {
	if e.Missing {
		return "admin credential required"
	}

	return "invalid admin credential"
}

// ConflictError reports a write that would violate a uniqueness constraint.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// BodyParseError wraps a failure to read or decode a JSON request body.
type BodyParseError struct {
	Err error
}

func (e *BodyParseError) Error() string {
	return "invalid JSON body: " + e.Err.Error()
}

func (e *BodyParseError) Unwrap() error {
	return e.Err
}
