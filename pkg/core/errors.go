package core

import (
	"errors"
	"fmt"
)

var (
	// ErrArityMismatch is returned when rows of one row set differ in length.
	ErrArityMismatch = errors.New("rows have inconsistent arity")

	// ErrUnsupportedInput is returned for data that is neither columnar nor a row iterable.
	ErrUnsupportedInput = errors.New("unsupported input data shape")

	// ErrSchemaMismatch is returned when a schema does not fit the relation it is applied to.
	ErrSchemaMismatch = errors.New("schema does not match relation")

	// ErrUnsupported is returned when an engine does not implement an operation.
	ErrUnsupported = errors.New("operation not supported by engine")

	// ErrNotConnected is returned when an engine is used before Connect.
	ErrNotConnected = errors.New("database connection not established")

	// ErrEmptyQuery is returned when a blank query is submitted.
	ErrEmptyQuery = errors.New("query is empty")
)

// ArityError reports the first row whose length differs from the first row.
type ArityError struct {
	Row  int // zero-based index of the offending row
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("row %d has %d values, expected %d", e.Row, e.Got, e.Want)
}

// Unwrap lets errors.Is match ErrArityMismatch.
func (e *ArityError) Unwrap() error {
	return ErrArityMismatch
}
