package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWithCode(t *testing.T) {
	tts := []struct {
		err      error
		code     int
		expected *trackError
	}{
		{
			err:  errors.New("simple error"),
			code: 404,
			expected: &trackError{
				msg:  "simple error",
				code: 404,
			},
		},
		{
			err: &trackError{
				msg:  "custom error",
				code: 200,
			},
			code: 501,
			expected: &trackError{
				msg:  "custom error",
				code: 501,
			},
		},
		{
			err: &trackError{
				msg:   "keep cause",
				code:  125,
				cause: &trackError{msg: "I am the cause"},
			},
			code: 305,
			expected: &trackError{
				msg:   "keep cause",
				code:  305,
				cause: &trackError{msg: "I am the cause"},
			},
		},
		{
			// nil input should give nil output
			err:      nil,
			code:     305,
			expected: nil,
		},
	}

	for i, tt := range tts {
		err, _ := WithCode(tt.code)(tt.err).(*trackError)
		assertErrors(tt.expected, err, t, fmt.Sprintf("%d WithCode", i))
	}
}

func TestWithCause(t *testing.T) {
	tts := []struct {
		err      error
		cause    error
		expected *trackError
	}{
		{
			err:   errors.New("simple error"),
			cause: errors.New("I am the cause"),
			expected: &trackError{
				msg:   "simple error",
				code:  500,
				cause: &trackError{msg: "I am the cause", code: DefaultCode},
			},
		},
		{
			err:   errors.New("simple error"),
			cause: &trackError{msg: "forward code", code: 120},
			expected: &trackError{
				msg:   "simple error",
				code:  120,
				cause: &trackError{msg: "forward code", code: 120},
			},
		},
		{
			err:   &trackError{msg: "custom error", code: 200},
			cause: &trackError{msg: "custom cause", code: 300},
			expected: &trackError{
				msg:   "custom error",
				code:  200,
				cause: &trackError{msg: "custom cause", code: 300},
			},
		},
		{
			// nil input should give nil output
			err:      nil,
			cause:    errors.New("the cause is ignored if the wrapper is nil"),
			expected: nil,
		},
	}

	for i, tt := range tts {
		err, _ := WithCause(tt.cause)(tt.err).(*trackError)
		assertErrors(tt.expected, err, t, fmt.Sprintf("%d WithCause", i))
	}
}

func TestTaxonomy(t *testing.T) {
	tts := map[string]struct {
		err          error
		validation   bool
		unauthorized bool
		conflict     bool
		unavailable  bool
	}{
		"validation": {
			err:        New("name is required", BadRequest()),
			validation: true,
		},
		"auth": {
			err:          New("token expired", Unauthorized()),
			unauthorized: true,
		},
		"duplicate": {
			err:      New("user is already a member", Conflict()),
			conflict: true,
		},
		"not found": {
			err:      New("no project for id p1", NotFound()),
			conflict: true,
		},
		"network": {
			err:         New("could not reach server", Unavailable()),
			unavailable: true,
		},
		"foreign": {
			err: errors.New("plain"),
		},
	}

	for name, tt := range tts {
		if got := IsValidation(tt.err); got != tt.validation {
			t.Errorf("%s - IsValidation: %v != %v", name, tt.validation, got)
		}
		if got := IsUnauthorized(tt.err); got != tt.unauthorized {
			t.Errorf("%s - IsUnauthorized: %v != %v", name, tt.unauthorized, got)
		}
		if got := IsConflict(tt.err); got != tt.conflict {
			t.Errorf("%s - IsConflict: %v != %v", name, tt.conflict, got)
		}
		if got := IsUnavailable(tt.err); got != tt.unavailable {
			t.Errorf("%s - IsUnavailable: %v != %v", name, tt.unavailable, got)
		}
	}
}

func TestMessageOf(t *testing.T) {
	err := New("could not create project", WithCause(errors.New("connection reset")), WithCode(http.StatusServiceUnavailable))
	if msg := MessageOf(err); msg != "could not create project" {
		t.Errorf("MessageOf should drop the cause chain, got %q", msg)
	}
	if full := err.Error(); full != "could not create project: connection reset" {
		t.Errorf("Error should keep the cause chain, got %q", full)
	}
}

func assertErrors(exp *trackError, got *trackError, t *testing.T, name string) {
	if exp == nil && got == nil {
		return
	}

	if exp == nil && got != nil {
		t.Errorf("%s - expected nil, got non-nil", name)
		return
	}

	if exp != nil && got == nil {
		t.Errorf("%s - expected non-nil, got nil", name)
		return
	}

	if got.code != exp.code {
		t.Errorf("%s - code: %d != %d", name, exp.code, got.code)
	}

	if got.msg != exp.msg {
		t.Errorf("%s - msg: %s != %s", name, exp.msg, got.msg)
	}

	assertErrors(exp.cause, got.cause, t, name)
}
