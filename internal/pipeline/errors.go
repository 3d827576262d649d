package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrNoInputFiles = errors.New("no input files found")
	ErrMissingField = errors.New("missing required field")
	ErrOutOfRange   = errors.New("value outside documented range")
)

// IngestError reports a file that could not be read or parsed.
type IngestError struct {
	Path string
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// ValidationError reports a record whose field breaks the documented domain.
type ValidationError struct {
	UID   string
	Field string
	Value interface{}
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %s: field %s=%v: %v", e.UID, e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
