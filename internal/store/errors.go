package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a malformed or missing field on a write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ForeignKeyError reports a write referencing a record that does not exist.
type ForeignKeyError struct {
	Field string
	ID    int64
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Field, e.ID)
}

// IsBadInput reports whether err is a caller error (validation or broken
// foreign key) rather than a backend failure.
func IsBadInput(err error) bool {
	var ve *ValidationError
	var fe *ForeignKeyError
	return errors.As(err, &ve) || errors.As(err, &fe)
}
