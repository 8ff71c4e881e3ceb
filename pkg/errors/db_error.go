package custom_error

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access to resource denied")
)

type CustomError interface {
	Error() string
}

type UniqueViolationError struct {
	message    string
	code       string // PostgreSQL error code (e.g., "23505")
	constraint string
}

type ForeignKeyViolationError struct {
	message    string
	code       string // PostgreSQL error code (e.g., "23503")
	constraint string
}

type CheckViolationError struct {
	message    string
	code       string
	constraint string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// Constraint is the name of the violated unique index, e.g. containers_container_number_key.
func (e *UniqueViolationError) Constraint() string {
	return e.constraint
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func (f *ForeignKeyViolationError) Constraint() string {
	return f.constraint
}

func (c *CheckViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", c.message, c.code)
}

func (c *CheckViolationError) Constraint() string {
	return c.constraint
}

func WrapDBError(message string, pqErr *pq.Error) CustomError {
	code := string(pqErr.Code)
	switch code {
	case uniqueViolationCode:
		return &UniqueViolationError{
			message:    message,
			code:       code,
			constraint: pqErr.Constraint,
		}
	case foreignKeyViolationCode:
		return &ForeignKeyViolationError{
			message:    "Referenced resource does not exist or is still in use: " + message,
			code:       code,
			constraint: pqErr.Constraint,
		}
	case checkViolationCode:
		return &CheckViolationError{
			message:    "Value rejected by database check: " + message,
			code:       code,
			constraint: pqErr.Constraint,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s: %w", code, message, pqErr)
	}
}

// FromDB converts a driver error into one of the typed errors above, or wraps
// it with message when it is not a PostgreSQL error.
func FromDB(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return WrapDBError(message, pqErr)
	}
	return fmt.Errorf("%s: %w", message, err)
}
