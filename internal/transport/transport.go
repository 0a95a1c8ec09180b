// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package transport

// Command is a deferred repository operation. Nothing happens until Execute is
// called and every call to Execute is a single attempt against the repository.
type Command[T any] interface {
	// Execute performs the operation and returns its outcome. It never panics
	// on network or repository failures, those are returned as a Failure.
	Execute() Result[T]
	// Description is a short label for the operation, derived only from its
	// parameters.
	Description() string
}

// Void is the payload type of commands that produce no value.
type Void struct{}

// CommandFunc adapts a description and a function into a Command.
type CommandFunc[T any] struct {
	Desc string
	Fn   func() Result[T]
}

var _ Command[Void] = (*CommandFunc[Void])(nil)

// NewCommandFunc returns a new Command that calls fn when executed.
func NewCommandFunc[T any](desc string, fn func() Result[T]) *CommandFunc[T] {
	return &CommandFunc[T]{
		Desc: desc,
		Fn:   fn,
	}
}

// Execute calls the wrapped function.
func (c *CommandFunc[T]) Execute() Result[T] {
	return c.Fn()
}

// Description returns the description.
func (c *CommandFunc[T]) Description() string {
	return c.Desc
}
