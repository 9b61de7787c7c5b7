package app

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories. Transport adapters
// map kinds to status codes at the boundary; services never deal in
// HTTP codes directly.
type ErrorKind int

const (
	// KindInternal is an unexpected fault.
	KindInternal ErrorKind = iota
	// KindValidation is malformed or empty caller input.
	KindValidation
	// KindUnauthenticated is a missing, invalid, or expired credential.
	KindUnauthenticated
	// KindForbidden is an authenticated actor touching a resource it
	// does not own.
	KindForbidden
	// KindNotFound is a reference to an absent resource.
	KindNotFound
)

// Error carries a kind, a machine-readable code, and a human-readable
// message.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// KindOf returns the kind of err, or KindInternal for errors that did
// not originate from a service.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the machine-readable code of err, or "internal".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}

// MessageOf returns the human-readable message of err, or a generic one
// for errors that did not originate from a service.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func unauthenticated(code, message string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: code, Message: message}
}

func forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

func notFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}
