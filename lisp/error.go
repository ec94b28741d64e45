// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"fmt"
)

// ErrorVal implements the error interface so that errors can be first class lisp
// objects.  The condition name is stored in the Str field and the underlying
// Go error in the Native field.
type ErrorVal LVal

// Error implements the error interface.  The error is prefixed by its source
// location, when known, and its condition name.
func (e *ErrorVal) Error() string {
	if e.Source != nil && e.Source.Pos >= 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.baseMessage())
	}
	return e.baseMessage()
}

func (e *ErrorVal) baseMessage() string {
	msg := e.ErrorMessage()
	if e.Str == "" || e.Str == "error" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Str, msg)
}

// Condition returns the error condition name (e.g., "car-error",
// "unmatched-syntax"). This is the programmatic error classification
// stored in the LVal.Str field for LError values.
func (e *ErrorVal) Condition() string {
	return e.Str
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	if err, ok := e.Native.(error); ok {
		return err.Error()
	}
	return ""
}

// Unwrap returns the underlying Go error.
func (e *ErrorVal) Unwrap() error {
	err, _ := e.Native.(error)
	return err
}

// IsSyntaxError returns true if e was produced while reading source text.
func (e *ErrorVal) IsSyntaxError() bool {
	return IsSyntaxCondition(e.Str)
}

// GoError returns an error that represents v.  If v is not LError then nil is
// returned.
func GoError(v *LVal) error {
	if v.Type != LError {
		return nil
	}
	return (*ErrorVal)(v)
}

// AsErrorVal returns the *ErrorVal in err's chain, if there is one.
func AsErrorVal(err error) (*ErrorVal, bool) {
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		return lerr, true
	}
	return nil, false
}

// Errorf returns an LError with a formatted error message and the generic
// condition “error”.
func Errorf(format string, v ...interface{}) *LVal {
	return ErrorConditionf("error", format, v...)
}

// ErrorCondition returns an LError representing err and having the given
// condition type.
func ErrorCondition(condition string, err error) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    condition,
		Native: err,
	}
}

// ErrorConditionf returns an LError with a formatted error message.
func ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return ErrorCondition(condition, fmt.Errorf(format, v...))
}
