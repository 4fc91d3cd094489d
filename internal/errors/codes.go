// Package errors defines the application error taxonomy and its mapping to
// HTTP status codes. Core packages return these errors as plain values; they
// never log, retry, or recover internally. The handler layer is solely
// responsible for translating them into responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error kind in API responses.
type Code string

const (
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeWrongValueType   Code = "WRONG_VALUE_TYPE"
	CodePayloadTooLarge  Code = "PAYLOAD_TOO_LARGE"
	CodeDuplicateKey     Code = "DUPLICATE_KEY"
	CodeNotFound         Code = "NOT_FOUND"
	CodeFilterConflict   Code = "FILTER_CONFLICT"
	CodeUnparseableQuery Code = "UNPARSEABLE_QUERY"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a typed application error with an error code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error.
func New(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Convenience constructors for the error taxonomy.

func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message, nil)
}

func WrongValueType(message string) *Error {
	return New(CodeWrongValueType, message, nil)
}

func PayloadTooLarge(length, maxLength int) *Error {
	return New(CodePayloadTooLarge,
		fmt.Sprintf("value length %d exceeds maximum %d", length, maxLength), nil)
}

func DuplicateKey(id string) *Error {
	return New(CodeDuplicateKey, fmt.Sprintf("string already exists with id %s", id), nil)
}

func NotFound(id string) *Error {
	return New(CodeNotFound, fmt.Sprintf("no string found with id %s", id), nil)
}

func FilterConflict(minLength, maxLength int) *Error {
	return New(CodeFilterConflict,
		fmt.Sprintf("min_length %d exceeds max_length %d", minLength, maxLength), nil)
}

func UnparseableQuery(query string) *Error {
	return New(CodeUnparseableQuery,
		fmt.Sprintf("could not derive any filters from query %q", query), nil)
}

func Internal(message string, cause error) *Error {
	return New(CodeInternal, message, cause)
}

// CodeOf extracts the error code from an error, defaulting to CodeInternal
// for untyped errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error to the HTTP status code the handler layer should
// emit for it.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch CodeOf(err) {
	case CodeInvalidInput, CodeUnparseableQuery:
		return http.StatusBadRequest
	case CodeWrongValueType, CodeFilterConflict:
		return http.StatusUnprocessableEntity
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeDuplicateKey:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
