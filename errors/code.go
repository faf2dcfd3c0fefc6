package errors

import (
	"net/http"
)

func BadRequest() ErrorEnricher   { return WithCode(http.StatusBadRequest) }
func Unauthorized() ErrorEnricher { return WithCode(http.StatusUnauthorized) }
func Forbidden() ErrorEnricher    { return WithCode(http.StatusForbidden) }
func NotFound() ErrorEnricher     { return WithCode(http.StatusNotFound) }
func Conflict() ErrorEnricher     { return WithCode(http.StatusConflict) }

// Unavailable marks transport failures: the request never got a
// response from the remote.
func Unavailable() ErrorEnricher { return WithCode(http.StatusServiceUnavailable) }

// IsValidation reports whether the error is a client-side rule
// violation that never reached the network.
func IsValidation(err error) bool { return CodeOf(err) == http.StatusBadRequest }

// IsUnauthorized reports whether the error must force the session
// back to anonymous.
func IsUnauthorized(err error) bool { return CodeOf(err) == http.StatusUnauthorized }

// IsConflict covers both duplicate entities and entities that are
// gone on the remote.
func IsConflict(err error) bool {
	code := CodeOf(err)
	return code == http.StatusConflict || code == http.StatusNotFound
}

// IsUnavailable reports whether the error is a transport failure.
func IsUnavailable(err error) bool { return CodeOf(err) == http.StatusServiceUnavailable }
