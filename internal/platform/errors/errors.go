// Package errors extends the standard errors package with wrapping
// helpers and the sentinel values shared across the pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// ErrTimeout indicates an operation exceeded its time limit.
	ErrTimeout = errors.New("operation timed out")

	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the remote host refused the request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates a service is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrTooLarge indicates a payload exceeded its configured byte ceiling.
	ErrTooLarge = errors.New("payload too large")

	// ErrStrategyUnavailable signals that a discovery strategy cannot be
	// used on this target and the caller should fall back to the next
	// one. It is a control signal, not a failure.
	ErrStrategyUnavailable = errors.New("discovery strategy unavailable")
)

// wrappedError attaches a context message to a cause.
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with a context message. Returns nil for nil err.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message. Returns nil
// for nil err.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats and returns a new error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsStrategyUnavailable reports whether err signals strategy fallback.
func IsStrategyUnavailable(err error) bool {
	return Is(err, ErrStrategyUnavailable)
}

// IsTimeout reports whether the error is a timeout error.
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsTooLarge reports whether the error is a byte-ceiling violation.
func IsTooLarge(err error) bool {
	return Is(err, ErrTooLarge)
}

// IsNotFound reports whether the error is a not found error.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}
