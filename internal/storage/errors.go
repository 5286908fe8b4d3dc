package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// UniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const UniqueViolation = "23505"

// Error is a failed statement. Code holds the SQLSTATE when the failure came
// from the server, and is empty otherwise.
type Error struct {
	Op         string
	Code       string
	Constraint string
	Err        error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: [%s] %v", e.Op, e.Code, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is a storage error caused by a
// unique constraint.
func IsUniqueViolation(err error) bool {
	var sErr *Error

	return errors.As(err, &sErr) && sErr.Code == UniqueViolation
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	sErr := &Error{Op: op, Err: err}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		sErr.Code = string(pqErr.Code)
		sErr.Constraint = pqErr.Constraint
	}

	return sErr
}
