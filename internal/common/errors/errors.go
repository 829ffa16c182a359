// Package errors provides the error taxonomy shared by agents, services and the HTTP boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Agent invocation
	ErrCodeProvider         ErrorCode = "PROVIDER_ERROR"
	ErrCodeSchemaValidation ErrorCode = "SCHEMA_VALIDATION_ERROR"
	ErrCodeNoMockAvailable  ErrorCode = "NO_MOCK_AVAILABLE"

	// Client-caused
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// Collaborators
	ErrCodeDatabase        ErrorCode = "DATABASE_ERROR"
	ErrCodeCache           ErrorCode = "CACHE_ERROR"
	ErrCodeNewsFetchFailed ErrorCode = "NEWS_FETCH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is/As see through the wrapper.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewProviderError wraps the final provider failure after retries were exhausted.
func NewProviderError(agent string, err error) *StandardError {
	return newError(ErrCodeProvider,
		fmt.Sprintf("LLM provider call failed for %s", agent),
		errString(err), true, err).
		WithMetadata("agent", agent)
}

// NewSchemaValidationError reports a provider payload that does not fit the output schema.
func NewSchemaValidationError(agent, details string, err error) *StandardError {
	return newError(ErrCodeSchemaValidation,
		fmt.Sprintf("Structured output for %s failed schema validation", agent),
		details, true, err).
		WithMetadata("agent", agent)
}

// NewNoMockAvailableError reports offline mode without a canned response.
func NewNoMockAvailableError(agent string) *StandardError {
	return newError(ErrCodeNoMockAvailable,
		fmt.Sprintf("Mock mode enabled but no mock response provided for %s", agent),
		"", false, nil).
		WithMetadata("agent", agent)
}

// NewNotFoundError reports an unknown entity id.
func NewNotFoundError(resource, id string) *StandardError {
	return newError(ErrCodeNotFound,
		fmt.Sprintf("%s not found", resource),
		fmt.Sprintf("id: %s", id), false, nil).
		WithMetadata("resource", resource)
}

// NewInvalidRequestError reports a malformed or incomplete client request.
func NewInvalidRequestError(message string) *StandardError {
	return newError(ErrCodeInvalidRequest, message, "", false, nil)
}

func NewDatabaseError(operation string, err error) *StandardError {
	return newError(ErrCodeDatabase,
		"Database operation failed",
		fmt.Sprintf("operation: %s, error: %s", operation, errString(err)), true, err).
		WithMetadata("operation", operation)
}

func NewCacheError(operation string, err error) *StandardError {
	return newError(ErrCodeCache,
		"Cache operation failed",
		fmt.Sprintf("operation: %s, error: %s", operation, errString(err)), true, err)
}

func NewNewsFetchFailedError(tier string, err error) *StandardError {
	return newError(ErrCodeNewsFetchFailed,
		"News search failed",
		fmt.Sprintf("tier: %s, error: %s", tier, errString(err)), true, err).
		WithMetadata("tier", tier)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errString(err), false, err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Inspection
// ==========================

// As returns the outermost StandardError in err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, INTERNAL_ERROR for unclassified errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := As(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if stdErr, ok := err.(*StandardError); ok && stdErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// HTTPStatus maps a code onto the status written at the route boundary.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode reports whether a failure with this code is transient. A malformed
// structured reply counts as transient since the next sample may fit the schema.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeProvider, ErrCodeSchemaValidation, ErrCodeDatabase, ErrCodeCache, ErrCodeNewsFetchFailed:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is worth another attempt. Unclassified errors, such as raw
// transport failures from an SDK, are retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	stdErr, ok := As(err)
	if !ok {
		return true
	}
	return IsRetryableErrorCode(stdErr.Code)
}

// CategoryOf returns the metrics category of err, "" when err is nil.
func CategoryOf(err error) string {
	if err == nil {
		return ""
	}
	return GetErrorCategory(CodeOf(err))
}

// GetErrorCategory returns the category of the error code, used as a metrics label.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROVIDER") || strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "MOCK"):
		return "AI"
	case code == ErrCodeNotFound || code == ErrCodeInvalidRequest:
		return "CLIENT"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NEWS"):
		return "SEARCH"
	default:
		return "OTHER"
	}
}
