package errors

import (
	"fmt"
)

type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode defines the code that will be used by default when none
// is given. It is set to 500, Internal Server Error.
var DefaultCode = 500

type trackError struct {
	code  int
	msg   string
	cause *trackError
}

func (err *trackError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *trackError) Code() int {
	return err.code
}

func (err *trackError) Message() string {
	return err.msg
}

func (err *trackError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

type ErrorEnricher func(error) error

func WithCode(code int) ErrorEnricher {
	return func(err error) error {
		if err == nil {
			return nil
		}

		if err, ok := err.(*trackError); ok {
			err.code = code
			return err
		}

		return &trackError{
			msg:  err.Error(),
			code: code,
		}
	}
}

func WithCause(cause error) ErrorEnricher {
	var trackCause *trackError
	switch cause := cause.(type) {
	case *trackError:
		trackCause = cause
	default:
		trackCause = &trackError{msg: cause.Error(), code: DefaultCode}
	}

	return func(err error) error {
		if err == nil {
			return nil
		}

		if trackErr, ok := err.(*trackError); ok {
			trackErr.cause = trackCause
			return trackErr
		}

		return &trackError{
			msg:   err.Error(),
			code:  trackCause.code,
			cause: trackCause,
		}
	}
}

func New(msg string, fs ...ErrorEnricher) error {
	var err error
	err = &trackError{
		msg:  msg,
		code: DefaultCode,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}

// CodeOf extracts the code carried by the error, falling back to
// DefaultCode for foreign errors.
func CodeOf(err error) int {
	if err, ok := err.(Error); ok {
		return err.Code()
	}
	return DefaultCode
}

// MessageOf extracts the human-readable message of the error, without
// the cause chain. This is the string surfaced as submitError or
// fetchError by the stores.
func MessageOf(err error) string {
	if err, ok := err.(Error); ok {
		return err.Message()
	}
	return err.Error()
}
