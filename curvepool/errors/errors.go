// Package errors defines the error taxonomy shared by every curvepool package.
//
// Four outcomes are distinguished:
//   - ArgumentError: malformed request, returned synchronously, never delivered to a continuation.
//   - OperationError: the primitive refused a ScalarMultiply or Sign request.
//   - InfrastructureError: the pool could not schedule or run a task.
//   - a negative verification, which is not an error at all.
//
// All types can be matched with errors.Is against the sentinels below.
//
// This package MUST NOT import any other curvepool package.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument indicates a request was rejected before a task was built.
	ErrArgument = errors.New("invalid argument")

	// ErrOperationFailed indicates the cryptographic primitive reported a non-zero status.
	ErrOperationFailed = errors.New("operation failed")

	// ErrInfrastructure indicates a scheduling or dispatch failure unrelated to the inputs.
	ErrInfrastructure = errors.New("infrastructure fault")
)

var (
	ErrConfigNil          = errors.New("config is nil")
	ErrConfigInvalidPool  = errors.New("invalid pool configuration")
	ErrConfigInvalidLog   = errors.New("invalid log configuration")
	ErrConfigInvalidBench = errors.New("invalid bench configuration")
)

var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidHex          = errors.New("invalid hex input")
	ErrSignatureInvalid    = errors.New("signature is not valid")
	ErrBenchMismatch       = errors.New("result delivered to the wrong request")
)

// ArgumentError describes a synchronous validation failure.
type ArgumentError struct {
	Op     string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Op == "" {
		return e.Reason
	}
	return e.Op + ": " + e.Reason
}

// Is reports ErrArgument as a match so callers can test the category.
func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// NewArgument returns an ArgumentError for op.
func NewArgument(op, reason string) *ArgumentError {
	return &ArgumentError{Op: op, Reason: reason}
}

// OperationError carries the primitive's status code.
type OperationError struct {
	Op     string
	Status int
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: primitive returned status %d", e.Op, e.Status)
}

func (e *OperationError) Is(target error) bool { return target == ErrOperationFailed }

// InfrastructureError wraps the pool-level cause of a failed dispatch.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrInfrastructure.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *InfrastructureError) Is(target error) bool { return target == ErrInfrastructure }

func (e *InfrastructureError) Unwrap() error { return e.Err }

// IsArgument reports whether err is an ArgumentError.
func IsArgument(err error) bool { return errors.Is(err, ErrArgument) }

// IsOperation reports whether err is an OperationError.
func IsOperation(err error) bool { return errors.Is(err, ErrOperationFailed) }

// IsInfrastructure reports whether err is an InfrastructureError.
func IsInfrastructure(err error) bool { return errors.Is(err, ErrInfrastructure) }
