package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	ErrFileNotFound ErrorType = iota
	ErrFileRead
	ErrFileWrite
	ErrAPI
	ErrTranslation
	ErrConfig
	ErrUnknown
)

// TransError classifies a job-level failure. Per-value translation
// failures never become errors; they are logged and skipped.
type TransError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func NewError(errorType ErrorType, message string) *TransError {
	return &TransError{
		Type:    errorType,
		Message: message,
	}
}

func WrapError(err error, errorType ErrorType, message string) *TransError {
	return &TransError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

func (e *TransError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}
	return strings.Join(parts, " | ")
}

func (e *TransError) Unwrap() error {
	return e.Cause
}

func (t ErrorType) String() string {
	switch t {
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrFileRead:
		return "FileRead"
	case ErrFileWrite:
		return "FileWrite"
	case ErrAPI:
		return "API"
	case ErrTranslation:
		return "Translation"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var transErr *TransError
	if errors.As(err, &transErr) {
		return transErr.Type == errorType
	}
	return false
}
