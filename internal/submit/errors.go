package submit

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed submission.
type ErrorKind int

const (
	// Unauthorized is an HTTP 401 from the endpoint.
	Unauthorized ErrorKind = iota
	// ServerMessage is any other non-success status; Message holds the body.
	ServerMessage
	// Transport is a network-layer failure before a response was read.
	Transport
)

// ErrUnauthorized matches a *SubmitError of kind Unauthorized via errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case Unauthorized:
		return "Unauthorized"
	case ServerMessage:
		return "ServerMessage"
	case Transport:
		return "Transport"
	default:
		return "Unknown"
	}
}

// SubmitError is returned by Submit for every failure. All kinds are
// terminal for the invocation.
type SubmitError struct {
	Kind ErrorKind
	// Status is the HTTP status code, zero for Transport errors.
	Status int
	// Message is the raw response body for ServerMessage errors.
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SubmitError) Error() string {
	switch e.Kind {
	case Unauthorized:
		return "unauthorized"
	case ServerMessage:
		return e.Message
	default:
		return fmt.Sprintf("transport: %v", e.Err)
	}
}

// Unwrap returns the wrapped error.
func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrUnauthorized and this is a 401.
func (e *SubmitError) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == Unauthorized
}
