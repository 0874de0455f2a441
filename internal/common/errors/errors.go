// internal/common/errors/errors.go

// Package errors provides standardized error handling for the generation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCatalogNotFound      ErrorCode = "CATALOG_NOT_FOUND"
	ErrCodeCatalogFormatInvalid ErrorCode = "CATALOG_FORMAT_INVALID"

	ErrCodeTemplateNotFound     ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateMissingField ErrorCode = "TEMPLATE_MISSING_FIELD"

	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"

	ErrCodeOutputWriteFailed ErrorCode = "OUTPUT_WRITE_FAILED"

	ErrCodeTranslationSourceInvalid ErrorCode = "TRANSLATION_SOURCE_INVALID"
	ErrCodeTranslationFailed        ErrorCode = "TRANSLATION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewCatalogNotFoundError creates a non-retryable catalog lookup error.
func NewCatalogNotFoundError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogNotFound,
		Message:   "Catalog file not found",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogFormatError creates a non-retryable catalog format error.
// Catalog errors are fatal and abort the run before any request is sent.
func NewCatalogFormatError(path, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogFormatInvalid,
		Message:   "Malformed catalog file",
		Details:   fmt.Sprintf("path: %s, %s", path, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError creates a non-retryable template lookup error.
func NewTemplateNotFoundError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "Prompt template not found",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateMissingFieldError creates a non-retryable per-item render error.
func NewTemplateMissingFieldError(field, itemKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateMissingField,
		Message:   "Template references a field the item does not define",
		Details:   fmt.Sprintf("field: %s, itemKey: %s", field, itemKey),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field, "itemKey": itemKey},
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable backend timeout error.
func NewGenerationTimeoutError(itemKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Generation request exceeded timeout",
		Details:   fmt.Sprintf("itemKey: %s", itemKey),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates an error for a request that exhausted retries.
func NewGenerationFailedError(itemKey string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Generation request failed after retries",
		Details:   fmt.Sprintf("itemKey: %s, error: %s", itemKey, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOutputWriteFailedError creates a fatal output write error.
func NewOutputWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutputWriteFailed,
		Message:   "Output document write failed",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranslationSourceInvalidError creates a non-retryable source validation error.
func NewTranslationSourceInvalidError(filename, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranslationSourceInvalid,
		Message:   "Source document failed validation",
		Details:   fmt.Sprintf("file: %s, %s", filename, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranslationFailedError creates a retryable translation error.
func NewTranslationFailedError(itemKey, locale string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranslationFailed,
		Message:   "Content translation failed",
		Details:   fmt.Sprintf("itemKey: %s, locale: %s, error: %s", itemKey, locale, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
