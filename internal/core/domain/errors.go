package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrInvalidDateRange = errors.New("invalid date range")
var ErrMissingField = errors.New("missing required field")
var ErrDecode = errors.New("credential cannot be decoded")
var ErrNoCredential = errors.New("no stored credential")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrSessionExpired = errors.New("session expired")
var ErrSubmissionInFlight = errors.New("booking submission already in progress")
var ErrNotValidated = errors.New("booking draft has not been validated")
var ErrWorkflowClosed = errors.New("booking already confirmed")

// ValidationError is a local precondition failure. It is never sent over the network.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ApplicationError is a response that reached the client but was not a success:
// either the transport status was outside 2xx or the envelope code was non-zero.
type ApplicationError struct {
	Status  int
	Code    int
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if text := http.StatusText(e.Status); text != "" {
		return fmt.Sprintf("request failed: %s (code %d)", text, e.Code)
	}
	return fmt.Sprintf("request failed with code %d", e.Code)
}

// NetworkError means the request never reached the server or no usable
// response came back.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RefreshError is returned when a credential could not be replaced. The
// session has already been cleared by the time the caller sees it.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// FailureReason turns a classified failure into the message shown to a guest.
func FailureReason(err error) string {
	var appErr *ApplicationError
	var valErr *ValidationError
	var netErr *NetworkError
	var refreshErr *RefreshError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired), errors.As(err, &refreshErr):
		// a rejected refresh carries the refresh endpoint's envelope
		return "your session has expired, please sign in again"
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.As(err, &appErr):
		return appErr.Error()
	case errors.As(err, &netErr):
		return "could not reach the reservation service, please try again"
	default:
		return "something went wrong while processing your booking, please try again"
	}
}
