package domain

import (
	"net/http"
)

type ErrorCode int

const (
	// ErrorCodeInternalProcess is the fallback for unclassified failures.
	ErrorCodeInternalProcess ErrorCode = iota
	// ErrorCodeValidation covers missing or empty required input.
	ErrorCodeValidation
	// ErrorCodeParameterInvalid covers malformed identifiers supplied by the caller.
	ErrorCodeParameterInvalid
	// ErrorCodeResourceNotFound covers lookups that matched no document.
	ErrorCodeResourceNotFound
	// ErrorCodeResourceConflict covers duplicate join attempts.
	ErrorCodeResourceConflict
	// ErrorCodeStoreUnavailable covers database connectivity failures.
	ErrorCodeStoreUnavailable
	// ErrorCodeNotAuthenticated covers missing or wrong admin secrets.
	ErrorCodeNotAuthenticated
)

// DomainError is the typed error passed from repositories and services up to
// the handlers, which map it onto an HTTP status and a client-safe message.
type DomainError struct {
	code   ErrorCode
	err    error
	msg    string
	detail map[string]interface{}
}

type ErrorOption func(*DomainError)

// WithMsg sets the message shown to the client. The wrapped error is only
// logged server-side.
func WithMsg(msg string) ErrorOption {
	return func(e *DomainError) {
		e.msg = msg
	}
}

// WithDetail attaches structured detail to the client response.
func WithDetail(detail map[string]interface{}) ErrorOption {
	return func(e *DomainError) {
		e.detail = detail
	}
}

func NewError(code ErrorCode, err error, opts ...ErrorOption) DomainError {
	e := DomainError{code: code, err: err}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e DomainError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e DomainError) Unwrap() error {
	return e.err
}

func (e DomainError) Code() ErrorCode {
	return e.code
}

func (e DomainError) ClientMsg() string {
	return e.msg
}

func (e DomainError) Detail() map[string]interface{} {
	return e.detail
}

func (e DomainError) Name() string {
	switch e.code {
	case ErrorCodeValidation:
		return "VALIDATION_ERROR"
	case ErrorCodeParameterInvalid:
		return "PARAMETER_INVALID"
	case ErrorCodeResourceNotFound:
		return "RESOURCE_NOT_FOUND"
	case ErrorCodeResourceConflict:
		return "RESOURCE_CONFLICT"
	case ErrorCodeStoreUnavailable:
		return "STORE_UNAVAILABLE"
	case ErrorCodeNotAuthenticated:
		return "AUTH_NOT_AUTHENTICATED"
	default:
		return "INTERNAL_PROCESS"
	}
}

func (e DomainError) HTTPStatus() int {
	switch e.code {
	case ErrorCodeValidation, ErrorCodeParameterInvalid:
		return http.StatusBadRequest
	// The original wire contract reports a duplicate join as 400.
	case ErrorCodeResourceConflict:
		return http.StatusBadRequest
	case ErrorCodeResourceNotFound:
		return http.StatusNotFound
	case ErrorCodeNotAuthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
