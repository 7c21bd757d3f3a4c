package models

import (
	"errors"
	"fmt"
)

// Pipeline error kinds. Callers match with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrSchemaViolation      = errors.New("schema violation")
	ErrEmptyDataset         = errors.New("empty dataset")
)

// ErrUnknownView is returned when a view name is not one of ViewNames.
var ErrUnknownView = errors.New("unknown view")

// ConfigError reports a malformed generator parameter or vocabulary.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// SchemaViolationError identifies the offending record and field.
// Row is the zero-based data row index (header excluded).
type SchemaViolationError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: row %d field %s: %s", ErrSchemaViolation, e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: row %d field %s (%q): %s", ErrSchemaViolation, e.Row, e.Field, e.Value, e.Reason)
}

func (e *SchemaViolationError) Unwrap() error { return ErrSchemaViolation }

// EmptyDatasetError names the view that could not be computed on zero rows.
type EmptyDatasetError struct {
	View string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s: %s requires at least one transaction", ErrEmptyDataset, e.View)
}

func (e *EmptyDatasetError) Unwrap() error { return ErrEmptyDataset }
