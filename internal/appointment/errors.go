package appointment

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so callers can branch on the
// category instead of matching message text.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindBusinessRule   ErrorKind = "business_rule"
	KindNotFound       ErrorKind = "not_found"
	KindInfrastructure ErrorKind = "infrastructure"
)

// Error is a kinded error carried from the domain layer to the boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError tags an underlying error with a kind while preserving the
// cause for errors.Is/As chains.
func WrapError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first tagged error in err's chain, or
// the empty string when the error is untagged.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
