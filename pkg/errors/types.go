package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Lookup errors
	ErrCodeProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeLibraryNotFound ErrorCode = "LIBRARY_NOT_FOUND"
	ErrCodeFileNotFound    ErrorCode = "FILE_NOT_FOUND"

	// Conflict errors
	ErrCodeProjectExists ErrorCode = "PROJECT_EXISTS"

	// Filesystem errors
	ErrCodeStorageRead  ErrorCode = "STORAGE_READ"
	ErrCodeStorageWrite ErrorCode = "STORAGE_WRITE"

	// External tool errors
	ErrCodeToolExecution ErrorCode = "TOOL_EXECUTION"

	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error represents a structured sketchd error
type Error struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Context    map[string]any
}

// New creates a new structured error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with sketchd error context
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
	}
}

// WithContext adds context key-value pairs to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		sb.WriteString(" {")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", k, v))
			first = false
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Underlying))
	}

	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Underlying
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	sketchdErr, ok := err.(*Error)
	if !ok {
		return false
	}

	return sketchdErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	sketchdErr, ok := err.(*Error)
	if !ok {
		return ErrCodeInternal
	}

	return sketchdErr.Code
}

// HTTPStatus maps an error code to the HTTP status surfaced at the API
// boundary. Tool execution failures are routine outcomes and never mapped
// here; they travel in a 200 body.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeProjectNotFound, ErrCodeLibraryNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeProjectExists, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeStorageRead, ErrCodeStorageWrite, ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// StatusForError resolves the HTTP status for any error value.
func StatusForError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return HTTPStatus(GetCode(err))
}
