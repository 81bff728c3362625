// Package apperrors defines the client's error taxonomy. Every failure that
// reaches the shell is an *Error whose Message can be shown to the user as is.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies where a failure originated
type Kind string

const (
	// KindValidation is bad user input caught before any request is sent
	KindValidation Kind = "validation"
	// KindRemote is a non-2xx answer from the server
	KindRemote Kind = "remote"
	// KindTransport is a network, timeout or decoding failure
	KindTransport Kind = "transport"
)

// User-facing messages shared by several call sites
const (
	MsgNetworkError = "Network error. Please try again."
	MsgEnterURL     = "Please enter a YouTube URL"
	MsgInvalidURL   = "Please enter a valid YouTube URL"
)

// Error is a classified client error
type Error struct {
	Kind      Kind
	Op        string // gateway operation, e.g. "analyze"
	Message   string // safe to display
	Status    int    // HTTP status for KindRemote
	RequestID string
	Cause     error
}

// Error implements the error interface
func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a KindValidation error
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Remote creates a KindRemote error for an HTTP status
func Remote(op string, status int, message string) *Error {
	return &Error{Kind: KindRemote, Op: op, Status: status, Message: message}
}

// Transport creates a KindTransport error with the generic network message
func Transport(op string, cause error) *Error {
	return &Error{Kind: KindTransport, Op: op, Message: MsgNetworkError, Cause: cause}
}

// WithRequestID records the request id the failure belongs to
func (e *Error) WithRequestID(id string) *Error {
	e.RequestID = id
	return e
}

// KindOf returns the Kind of err, or "" when err is not an *Error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsValidation returns true if err is a validation error
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsRemote returns true if err is a server-reported error
func IsRemote(err error) bool {
	return KindOf(err) == KindRemote
}

// IsTransport returns true if err is a transport error
func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}

// UserMessage returns the text to show for err. Unclassified errors get the
// generic network message so raw transport text never reaches the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return MsgNetworkError
}
