package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation signals a missing or invalid field caught before any network call.
	ErrValidation = errors.New("validation error")
	// ErrRemoteRejected signals a non-2xx document service response with a structured reason.
	ErrRemoteRejected = errors.New("remote rejected")
	// ErrRemoteUnexpected signals a document service response in an unrecognized shape.
	ErrRemoteUnexpected = errors.New("remote unexpected")
	// ErrTransport signals a request that never completed.
	ErrTransport = errors.New("transport failure")
)

// UnexpectedMessage is surfaced when a response cannot be interpreted.
const UnexpectedMessage = "Unexpected response format."

// RemoteError is the normalized failure of a document service operation.
// Message is user facing and returned verbatim by Error.
type RemoteError struct {
	Kind    error
	Status  int
	Message string
	// Cause holds the underlying transport error, if any.
	Cause error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Kind }

// NewValidationError creates a pre-network validation failure (status 400).
func NewValidationError(msg string) error {
	return &RemoteError{Kind: ErrValidation, Status: http.StatusBadRequest, Message: msg}
}

// NewRejected creates a failure carrying the service's own explanation and status.
func NewRejected(status int, msg string) error {
	return &RemoteError{Kind: ErrRemoteRejected, Status: status, Message: msg}
}

// NewUnexpected creates a failure for an unrecognized response shape. Status is forced to 500.
func NewUnexpected() error {
	return &RemoteError{Kind: ErrRemoteUnexpected, Status: http.StatusInternalServerError, Message: UnexpectedMessage}
}

// NewTransportError wraps a transport-level failure. Status is forced to 500.
func NewTransportError(err error) error {
	return &RemoteError{
		Kind:    ErrTransport,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("Network error: %v", err),
		Cause:   err,
	}
}

// StatusOf returns the status preserved on err, or 500 when err is not a RemoteError.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) && re.Status > 0 {
		return re.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return "internal error"
}
