package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Model output handling
	ErrNoValidRecords   ErrorCode = "NO_VALID_RECORDS"
	ErrInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrLLMServiceError  ErrorCode = "LLM_SERVICE_ERROR"

	ErrDatastore ErrorCode = "DATASTORE_ERROR"
)

// DomainError carries a caller-facing message plus the underlying cause.
// Message is what ends up in the {"error": ...} response body.
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

func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewNoValidRecordsError(message string, err error) *DomainError {
	return NewError(ErrNoValidRecords, message, err)
}

func NewInvalidFormatError(message string, err error) *DomainError {
	return NewError(ErrInvalidFormat, message, err)
}

func NewExtractionError(message string, err error) *DomainError {
	return NewError(ErrExtractionFailed, message, err)
}

// NewLLMServiceError hides provider details behind the generic message
// callers already know how to show.
func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Internal server error", err)
}

func NewDatastoreError(message string, err error) *DomainError {
	return NewError(ErrDatastore, message, err)
}
