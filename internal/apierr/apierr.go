package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes cover every outcome the prayer/progression core can surface.
const (
	CodeNotFound             = "not_found"
	CodeInvalidInput         = "invalid_input"
	CodeOutOfRange           = "out_of_range"
	CodeRateLimitExceeded    = "rate_limit_exceeded"
	CodeAlreadyOwned         = "already_owned"
	CodePrerequisiteNotMet   = "prerequisite_not_met"
	CodeInsufficientPoints   = "insufficient_points"
	CodeSubscriptionRequired = "subscription_required"
	CodeConfigurationError   = "configuration_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Meta carries extra response fields (e.g. dist/radius on an
	// out-of-range rejection).
	Meta map[string]interface{}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func InvalidInput(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, fmt.Errorf(format, args...))
}

func OutOfRange(err error, meta map[string]interface{}) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeOutOfRange, Err: err, Meta: meta}
}

func RateLimitExceeded(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeRateLimitExceeded, fmt.Errorf(format, args...))
}

func AlreadyOwned(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeAlreadyOwned, fmt.Errorf(format, args...))
}

func PrerequisiteNotMet(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodePrerequisiteNotMet, fmt.Errorf(format, args...))
}

func InsufficientPoints(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeInsufficientPoints, fmt.Errorf(format, args...))
}

func SubscriptionRequired(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeSubscriptionRequired, fmt.Errorf(format, args...))
}

// Configuration indicates broken reference data (missing level tier,
// cyclic prerequisites). Fatal for the request, logged distinctly.
func Configuration(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, CodeConfigurationError, fmt.Errorf(format, args...))
}

// From extracts an *Error from err's chain, or nil.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	e := From(err)
	return e != nil && e.Code == code
}
