package errs

import (
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Application error codes. They describe what went wrong in terms of the app, not in terms
// of the transport, and get mapped to http status codes by StatusCode.
const (
	ECONFLICT  = "conflict"
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	EFORBIDDEN = "forbidden"
)

// Sentinel errors that are never shown to a user. They indicate a programming or
// infrastructure problem rather than bad input, so they are reported as EINTERNAL.
const (
	IdInvalid         privateError = "models: ID provided was invalid"
	UserIdValid       privateError = "models: user ID is required"
	RememberTooShort  privateError = "models: remember token must be at least 32 bytes"
	RememberHashEmpty privateError = "models: remember token hash is required"
)

type privateError string

func (e privateError) Error() string {
	return string(e)
}

// Error represents an application-specific error. Code is one of the constants above,
// Message is safe to be displayed to the end user.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("app error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// codes maps application error codes to http status codes.
var codes = map[string]int{
	ECONFLICT:  http.StatusConflict,
	EINVALID:   http.StatusBadRequest,
	ENOTFOUND:  http.StatusNotFound,
	EFORBIDDEN: http.StatusForbidden,
	EINTERNAL:  http.StatusInternalServerError,
}

// StatusCode returns the http status code belonging to an application error code.
func StatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// requestIDHeader is set on every response by the http package's request id middleware.
const requestIDHeader = "X-Request-Id"

// LogError logs an error along with the request it happened in.
// Only internal errors are worth a log line, the rest is expected user behaviour.
func LogError(r *http.Request, err error) {
	if ErrorCode(err) != EINTERNAL {
		return
	}
	log.Printf("[http] error: %s %s [%s]: %s", r.Method, r.URL.Path, r.Header.Get(requestIDHeader), err)
}
