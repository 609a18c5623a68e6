package core

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client side error: the request is never sent.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fe := range err.Fields {
		msgs = append(msgs, fe.Field+": "+fe.Error)
	}
	return strings.Join(msgs, "; ")
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// ActionError is what screens show to the user: "<action> failed: <detail>".
type ActionError struct {
	Action string
	Err    error
}

// Failed wraps err as the failure of a user action.
// The detail is taken from the root cause, so wrapping context never leaks into the banner.
func Failed(action string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Action: action, Err: err}
}

func (err *ActionError) Error() string {
	return err.Action + " failed: " + Detail(err.Err)
}

func (err *ActionError) Cause() error  { return err.Err }
func (err *ActionError) Unwrap() error { return err.Err }

// Detail returns the user facing message of err's root cause.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	if msg := errors.Cause(err).Error(); msg != "" {
		return msg
	}
	return "unknown error"
}
