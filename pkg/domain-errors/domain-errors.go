// Package domainerrors is the error taxonomy shared by the registration flow
// and the document store. Codes name what went wrong in business terms;
// pkg/platform/httputil maps them to HTTP.
package domainerrors

import "errors"

type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_failed"
	CodeInternal     Code = "internal_error"
	// CodeConflict is AlreadyExists: an active registration or folder is in the way.
	CodeConflict Code = "conflict"

	// CodeExternalService marks a failed call to a downstream dependency.
	// Error.Status and Error.Service say which call and how it answered.
	CodeExternalService Code = "external_service"
	// CodeInvalidState rejects an operation the entity's current state forbids.
	CodeInvalidState Code = "invalid_state"
	// CodeStorage marks a failed write to blob or record storage.
	CodeStorage Code = "storage_error"
)

// Error carries a stable code across service, store and handler layers.
type Error struct {
	Code    Code
	Message string
	// Service and Status are set for CodeExternalService only.
	Service string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by code, so errors.Is(err, ErrAlreadyRegistered) holds for any conflict.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewExternal reports that service answered with a non-success status.
func NewExternal(service string, status int, msg string) error {
	return &Error{Code: CodeExternalService, Message: msg, Service: service, Status: status}
}

// Wrap attaches msg to err. A domain error keeps its own code and
// downstream details; anything else gets code.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:    existing.Code,
			Message: msg,
			Service: existing.Service,
			Status:  existing.Status,
			Err:     err,
		}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// StatusOf returns the downstream status carried by an external service error.
func StatusOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Code == CodeExternalService {
		return e.Status, true
	}
	return 0, false
}

// CodeOf returns the domain code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
