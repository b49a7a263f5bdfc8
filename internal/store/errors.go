package store

import (
	"errors"
	"fmt"
)

// Code classifies an expected failure of a transform or picker.
type Code string

const (
	// CodeNotFound means a workspace, window, monitor or layout engine
	// index was absent.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvariantViolation means applying the operation would break a
	// state invariant, so it was rejected.
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	// CodeExternal means a native call failed.
	CodeExternal Code = "EXTERNAL"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("store is closed")

// Error is a coded store error.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return newError(CodeNotFound, format, args...)
}

func invariantViolation(format string, args ...any) *Error {
	return newError(CodeInvariantViolation, format, args...)
}

func external(cause error, format string, args ...any) *Error {
	return &Error{Code: CodeExternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsNotFound(err error) bool           { return CodeOf(err) == CodeNotFound }
func IsInvariantViolation(err error) bool { return CodeOf(err) == CodeInvariantViolation }
func IsExternal(err error) bool           { return CodeOf(err) == CodeExternal }
