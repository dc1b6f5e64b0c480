package docchat

import "github.com/kailas-cloud/docchat/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	// ErrValidation is returned before any network call for a missing or invalid field.
	ErrValidation = domain.ErrValidation
	// ErrRejected carries the document service's own explanation and status.
	ErrRejected = domain.ErrRemoteRejected
	// ErrUnexpected means the response could not be interpreted.
	ErrUnexpected = domain.ErrRemoteUnexpected
	// ErrTransport means the request never completed.
	ErrTransport = domain.ErrTransport
)

// StatusOf returns the HTTP status associated with err (500 when unknown).
func StatusOf(err error) int { return domain.StatusOf(err) }

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string { return domain.MessageOf(err) }
