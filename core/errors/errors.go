package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrBalanceInsufficient = stderrors.New("actuator: balance is not sufficient")
	ErrUnsupportedContract = stderrors.New("actuator: unsupported contract type")
	ErrContractType        = stderrors.New("actuator: contract type mismatch")
	ErrNoContract          = stderrors.New("actuator: no contract")
	ErrNoLedger            = stderrors.New("actuator: no ledger store")
	ErrAccountNotFound     = stderrors.New("actuator: account not found")
)

// ValidationError rejects a contract before any state is touched.
type ValidationError struct {
	Reason string
	Err    error
}

// Validationf builds a ValidationError with a formatted reason.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// WrapValidation attaches a reason to an underlying cause.
func WrapValidation(err error, reason string) *ValidationError {
	return &ValidationError{Reason: reason, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ExecutionError reports a failure discovered while applying a contract. The
// result record still carries the fee.
type ExecutionError struct {
	Reason string
	Err    error
}

// Executionf builds an ExecutionError with a formatted reason.
func Executionf(format string, args ...any) *ExecutionError {
	return &ExecutionError{Reason: fmt.Sprintf(format, args...)}
}

// WrapExecution attaches a reason to an underlying cause. A nil err yields nil.
func WrapExecution(err error, reason string) error {
	if err == nil {
		return nil
	}
	var execErr *ExecutionError
	if stderrors.As(err, &execErr) && reason == "" {
		return err
	}
	if reason == "" {
		reason = err.Error()
	}
	return &ExecutionError{Reason: reason, Err: err}
}

func (e *ExecutionError) Error() string {
	return e.Reason
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsExecution reports whether err is, or wraps, an ExecutionError.
func IsExecution(err error) bool {
	var target *ExecutionError
	return stderrors.As(err, &target)
}

// Reason extracts the human-readable reason carried by err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v.Reason
	}
	var e *ExecutionError
	if stderrors.As(err, &e) {
		return e.Reason
	}
	return err.Error()
}
