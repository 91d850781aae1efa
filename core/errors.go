package core

import "github.com/pkg/errors"

// ErrCredentialRejected is returned when the backend rejects the admin code
// on a read action; it doubles as the session-expired signal.
var ErrCredentialRejected = errors.New("admin code rejected")

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ServerError carries a business rejection reported by the backend; its
// message is surfaced to the admin verbatim.
type ServerError struct {
	Msg string
}

func NewServerError(msg string) error {
	if msg == "" {
		msg = "Something went wrong."
	}
	return &ServerError{msg}
}

func (err *ServerError) Error() string {
	return err.Msg
}

// ConnectionError wraps any transport failure or malformed response. All of
// them surface uniformly as a generic connection error; the admin retries
// manually.
type ConnectionError struct {
	Err error
}

func NewConnectionError(err error) error {
	return &ConnectionError{err}
}

func (err *ConnectionError) Error() string {
	return "Connection error. Try again."
}

func (err *ConnectionError) Unwrap() error {
	return err.Err
}

func IsConnectionError(err error) bool {
	_, ok := errors.Cause(err).(*ConnectionError)
	return ok
}

func IsServerError(err error) bool {
	_, ok := errors.Cause(err).(*ServerError)
	return ok
}

func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}
