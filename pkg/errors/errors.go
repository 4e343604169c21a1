package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the kinds of failure a download attempt can end with
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeClipboard    ErrorType = "clipboard"
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeRemote       ErrorType = "remote"
	ErrorTypeMissingAsset ErrorType = "missing_asset"
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// User facing messages shown for each kind of failure
const (
	MsgEmptyURL      = "Please enter an Instagram reel URL"
	MsgInvalidURL    = "Please enter a valid Instagram reel or post URL"
	MsgNetwork       = "Failed to download reel. Please try again."
	MsgMissingAsset  = "Video URL not found"
	MsgStorage       = "Failed to save reel. Please try again."
	MsgClipboard     = "Unable to paste from clipboard. Please paste manually."
	MsgRemoteDefault = "The extraction service could not process this link"
)

// Error is a typed failure. Message is safe to show to the user, Cause keeps
// the underlying error for logs.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error without a cause
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap creates an Error around an underlying cause
func Wrap(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause}
}

// WithCode returns a copy of the error carrying an HTTP status code
func (e *Error) WithCode(code int) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

// As extracts an *Error from an error chain
func As(err error) (*Error, bool) {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown for foreign errors
func TypeOf(err error) ErrorType {
	if typed, ok := As(err); ok {
		return typed.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries the given type
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// IsLocal reports whether the error was raised before any network call
func IsLocal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeValidation, ErrorTypeClipboard:
		return true
	default:
		return false
	}
}
