package gerrit

import (
	"errors"
	"fmt"
)

// DecodeError is returned when a body that claimed to be JSON could not be
// parsed. Body holds the undecoded response for inspection.
type DecodeError struct {
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding JSON response (%d bytes): %v", len(e.Body), e.Err)
}

// Unwrap returns the underlying parse error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EntityError is returned when a response object does not have the shape of
// the requested entity.
type EntityError struct {
	Entity string
	// Key is the outer object key when decoding a keyed collection.
	Key string
	Err error
}

// Error implements the error interface.
func (e *EntityError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("decoding %s %q: %v", e.Entity, e.Key, e.Err)
	}

	return fmt.Sprintf("decoding %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *EntityError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure to get any response from the server:
// connection refused, timeout, TLS failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned when a request was answered with a status code the
// operation does not accept. Body holds the server's explanation.
type StatusError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d", ErrUnexpectedStatus, e.StatusCode)
}

// Unwrap returns ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrURLRequired        = errors.New("gerrit URL is required")
	ErrNoHostInURL        = errors.New("no host specified in URL")
	ErrProjectRequired    = errors.New("project name is required")
	ErrBranchRefRequired  = errors.New("branch ref is required")
	ErrBranchInputMissing = errors.New("branch input is required")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrAccountIDRequired  = errors.New("account ID is required")
	ErrCommitRequired     = errors.New("commit is required")
	ErrUnexpectedStatus   = errors.New("unexpected status code")
	ErrEmptyValue         = errors.New("response carried no JSON value")
	ErrNotAnObject        = errors.New("expected a JSON object")
	ErrUnknownEntity      = errors.New("no schema registered for entity")
)

// IsNotFound checks if the error reports a missing branch.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBranchNotFound)
}

// IsTransportError checks if the error is a connection-level failure.
func IsTransportError(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// RawBody returns the undecoded body carried by a DecodeError or StatusError
// anywhere in the chain.
func RawBody(err error) ([]byte, bool) {
	decodeErr := &DecodeError{}
	if errors.As(err, &decodeErr) {
		return decodeErr.Body, true
	}

	statusErr := &StatusError{}
	if errors.As(err, &statusErr) {
		return statusErr.Body, true
	}

	return nil, false
}
