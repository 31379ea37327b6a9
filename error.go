package cleanplate

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// The fetch and extraction codes form the terminal failure taxonomy of a
// single extraction attempt. Nothing in the core retries automatically.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// ENETWORK is a transport-level failure (DNS, connection refused, timeout).
	ENETWORK = "network"
	// ESSL is the certificate verification variant of ENETWORK.
	ESSL = "ssl_verification_failed"
	// EACCESSDENIED means the server answered 403 or 429.
	EACCESSDENIED = "access_denied"
	// EHTTP is any other status >= 400. The status is kept on the error.
	EHTTP = "http_error"
	// EBOTCHALLENGE means the body matched a known challenge-page signature.
	EBOTCHALLENGE = "bot_challenge"
	// EJSREQUIRED means the body is a small "enable JavaScript" shell.
	EJSREQUIRED = "javascript_required"
	// ENORECIPE means both extraction phases ran and neither found a recipe.
	ENORECIPE = "no_recipe_found"
	// EUNSAFEURL means the URL guard refused the target before any request.
	EUNSAFEURL = "unsafe_url"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Upstream HTTP status, set for EACCESSDENIED and EHTTP.
	Status int

	// Underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cleanplate error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("cleanplate error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code and message wrapping err.
func WrapError(code string, err error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// StatusError returns an Error carrying an upstream HTTP status.
func StatusError(code string, status int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Status:  status,
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

// ErrorStatus returns the upstream HTTP status carried by err, or 0.
func ErrorStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsNetworkError reports whether err is a transport-level failure,
// including the certificate verification variant.
func IsNetworkError(err error) bool {
	code := ErrorCode(err)
	return code == ENETWORK || code == ESSL
}
