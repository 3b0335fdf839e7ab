package usecase

import (
	"fmt"

	"backoffice/internal/data/repository"
	"backoffice/pkg/utils"
)

// ErrNotFound is wrapped by every lookup that misses, including ids that
// exist under another role, and by writes that lost a race with a delete.
var ErrNotFound = repository.ErrNotFound

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func fieldError(field, message string) *ValidationError {
	return NewValidationError(map[string]string{field: message})
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

// StorageError reports an attachment that could not be persisted.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
