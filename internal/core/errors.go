package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeNotRegistered = "not_registered"
	ErrCodeEmptyMessage  = "empty_message"
	ErrCodeStoreError    = "store_error"
)

var (
	// ErrEmptyMessage is returned for a message with neither text nor
	// an attachment.
	ErrEmptyMessage = errors.New("message has no content")
	// ErrNotRegistered is returned when a command requires a bound
	// identity and the connection never registered one.
	ErrNotRegistered = errors.New("connection not registered")
)

// CoreError wraps a code and human-readable message for events.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
