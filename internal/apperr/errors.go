// Package apperr defines the error taxonomy shared by the record store,
// the services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeForbidden       = "FORBIDDEN"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeQuery           = "DB_QUERY"
	CodeConnection      = "DB_CONNECTION"
	CodeTransaction     = "DB_TRANSACTION"
	CodeConfiguration   = "CONFIGURATION"
)

// Error is an application error carrying a stable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error with the given code wrapping err.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithDetails returns a copy of e carrying details. The receiver is left
// untouched so package-level sentinels stay immutable.
func (e *Error) WithDetails(details string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

var (
	ErrPostNotFound    = New(CodeNotFound, "post not found")
	ErrCommentNotFound = New(CodeNotFound, "comment not found")
	ErrReviewNotFound  = New(CodeNotFound, "review not found")
	ErrTagNotFound     = New(CodeNotFound, "tag not found")
	ErrUserNotFound    = New(CodeNotFound, "user not found")

	ErrTagExists        = New(CodeAlreadyExists, "tag already exists")
	ErrTagAlreadyLinked = New(CodeAlreadyExists, "tag already linked to post")
	ErrReviewExists     = New(CodeAlreadyExists, "user has already reviewed this post")
	ErrEmailExists      = New(CodeAlreadyExists, "an account with this email already exists")

	ErrForbidden          = New(CodeForbidden, "not allowed")
	ErrInvalidCredentials = New(CodeUnauthenticated, "invalid email or password")
)

// Invalid returns an INVALID_INPUT error.
func Invalid(message string) *Error {
	return New(CodeInvalidInput, message)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool        { return CodeOf(err) == CodeNotFound }
func IsAlreadyExists(err error) bool   { return CodeOf(err) == CodeAlreadyExists }
func IsForbidden(err error) bool       { return CodeOf(err) == CodeForbidden }
func IsInvalidInput(err error) bool    { return CodeOf(err) == CodeInvalidInput }
func IsUnauthenticated(err error) bool { return CodeOf(err) == CodeUnauthenticated }

// IsStorage reports whether err is a query, connection or transaction failure.
func IsStorage(err error) bool {
	switch CodeOf(err) {
	case CodeQuery, CodeConnection, CodeTransaction:
		return true
	}
	return false
}
