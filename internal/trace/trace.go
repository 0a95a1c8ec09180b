// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"sync/atomic"

	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

// Tracer records the description and outcome of every executed command.
type Tracer interface {
	Trace(description string, outcome string)
}

// TracerFunc adapts a function into a Tracer.
type TracerFunc func(description string, outcome string)

// Trace calls f.
func (f TracerFunc) Trace(description string, outcome string) {
	f(description, outcome)
}

type bound struct {
	tracer Tracer
}

// Binding holds the currently bound Tracer. It can be rebound or unbound at
// any time, including while commands are executing. The zero value is an
// unbound Binding.
type Binding struct {
	current atomic.Pointer[bound]
}

// NewBinding returns a Binding, bound to tracer when it's not nil.
func NewBinding(tracer Tracer) *Binding {
	b := &Binding{}
	b.Bind(tracer)

	return b
}

// Bind binds tracer. Binding a nil Tracer is the same as Unbind.
func (b *Binding) Bind(tracer Tracer) {
	if tracer == nil {
		b.Unbind()
		return
	}

	b.current.Store(&bound{tracer: tracer})
}

// Unbind removes the bound Tracer.
func (b *Binding) Unbind() {
	b.current.Store(nil)
}

// Load returns the currently bound Tracer or nil.
func (b *Binding) Load() Tracer {
	if b == nil {
		return nil
	}

	cur := b.current.Load()
	if cur == nil {
		return nil
	}

	return cur.tracer
}

// TracingCommand decorates a Command and reports every execution to the
// Tracer bound at the time the execution completes.
type TracingCommand[T any] struct {
	command it.Command[T]
	binding *Binding
}

var _ it.Command[it.Void] = (*TracingCommand[it.Void])(nil)

// Wrap decorates command with tracing through binding.
func Wrap[T any](command it.Command[T], binding *Binding) *TracingCommand[T] {
	return &TracingCommand[T]{
		command: command,
		binding: binding,
	}
}

// Execute executes the wrapped command and traces the outcome if a Tracer is
// bound. The Result is returned as is.
func (c *TracingCommand[T]) Execute() it.Result[T] {
	res := c.command.Execute()

	if tracer := c.binding.Load(); tracer != nil {
		tracer.Trace(c.command.Description(), res.String())
	}

	return res
}

// Description returns the wrapped command's description.
func (c *TracingCommand[T]) Description() string {
	return c.command.Description()
}

// Multi returns a Tracer that forwards every record to all tracers.
func Multi(tracers ...Tracer) Tracer {
	all := make([]Tracer, 0, len(tracers))
	for _, t := range tracers {
		if t != nil {
			all = append(all, t)
		}
	}

	return TracerFunc(func(description string, outcome string) {
		for _, t := range all {
			t.Trace(description, outcome)
		}
	})
}
