package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Generation pipeline errors
	ErrFormatLoad        ErrorCode = "FORMAT_LOAD_ERROR"
	ErrContextLoad       ErrorCode = "CONTEXT_LOAD_ERROR"
	ErrGenerationService ErrorCode = "GENERATION_SERVICE_ERROR"
	ErrContentExtraction ErrorCode = "CONTENT_EXTRACTION_ERROR"
	ErrSchemaValidation  ErrorCode = "SCHEMA_VALIDATION_ERROR"
	ErrPersistence       ErrorCode = "PERSISTENCE_ERROR"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewFormatLoadError(path string, err error) *DomainError {
	return NewError(ErrFormatLoad, fmt.Sprintf("Failed to load question format from %s", path), err)
}

func NewContextLoadError(path string, err error) *DomainError {
	return NewError(ErrContextLoad, fmt.Sprintf("Failed to load existing questions from %s", path), err)
}

func NewGenerationServiceError(err error) *DomainError {
	return NewError(ErrGenerationService, "AI generation service call failed", err)
}

// NewContentExtractionError carries a preview of the offending content so
// malformed responses can be diagnosed from the error alone.
func NewContentExtractionError(preview string, err error) *DomainError {
	const maxPreview = 200
	if len(preview) > maxPreview {
		preview = preview[:maxPreview] + "..."
	}
	return NewError(ErrContentExtraction, fmt.Sprintf("Could not extract a question array from response (preview: %q)", preview), err)
}

// NewSchemaValidationError identifies the 0-based index and field that failed
// strict-mode validation.
func NewSchemaValidationError(index int, field string, message string) *DomainError {
	return NewError(ErrSchemaValidation, fmt.Sprintf("Question at index %d failed validation on field %q: %s", index, field, message), nil)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(ErrPersistence, message, err)
}
