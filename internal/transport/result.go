// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package transport

import "fmt"

// OutcomeSuccess is the outcome summary of every successful Result.
const OutcomeSuccess = "OK"

// Result is the terminal outcome of a single command execution. Exactly one of
// the value or the error is populated.
type Result[T any] struct {
	value T
	err   *RepositoryError
}

// ContractViolation is the panic value used when a Result is misused, e.g.
// reading the success value of a Failure.
type ContractViolation struct {
	Msg string
	Err *RepositoryError
}

func (c ContractViolation) Error() string {
	if c.Err == nil {
		return "contract violation: " + c.Msg
	}

	return fmt.Sprintf("contract violation: %s: %s", c.Msg, c.Err)
}

// Success returns a successful Result carrying value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure returns a failed Result carrying err. A nil err is a programming
// error and panics.
func Failure[T any](err *RepositoryError) Result[T] {
	if err == nil {
		panic(ContractViolation{Msg: "failure result created without an error"})
	}

	return Result[T]{err: err}
}

// IsSuccess returns whether the result is a Success.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Get returns the success value. Calling Get on a Failure panics with a
// ContractViolation, callers must check IsSuccess first.
func (r Result[T]) Get() T {
	if r.err != nil {
		panic(ContractViolation{Msg: "success value requested from a failed result", Err: r.err})
	}

	return r.value
}

// Value returns the success value, or the failure error.
func (r Result[T]) Value() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}

	return r.value, nil
}

// Err returns the failure error, or nil for a Success.
func (r Result[T]) Err() *RepositoryError {
	return r.err
}

// String summarizes the outcome. It's what the trace sinks record.
func (r Result[T]) String() string {
	if r.err == nil {
		return OutcomeSuccess
	}

	return fmt.Sprintf("FAILED (%s)", r.err)
}
