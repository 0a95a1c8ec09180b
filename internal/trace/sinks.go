// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/hashicorp-forge/sling-transport/internal/log"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

var _ Tracer = (*LoggerTracer)(nil)

// LoggerTracer writes trace records to a Logger. Failures are logged at warn
// level and successes at info level.
type LoggerTracer struct {
	log log.Logger
}

// NewLoggerTracer returns a Tracer that logs with l.
func NewLoggerTracer(l log.Logger) *LoggerTracer {
	return &LoggerTracer{log: l}
}

func (t *LoggerTracer) Trace(description string, outcome string) {
	fields := map[string]interface{}{
		"command": description,
		"outcome": outcome,
	}

	if outcome == it.OutcomeSuccess {
		t.log.Info("command executed", fields)
		return
	}

	t.log.Warn("command failed", fields)
}

var _ Tracer = (*WriterTracer)(nil)

// WriterTracer writes one "<description> -> <outcome>" line per record.
type WriterTracer struct {
	mu      sync.Mutex
	out     io.Writer
	success *color.Color
	failure *color.Color
}

// WriterTracerOpt is a functional option for NewWriterTracer.
type WriterTracerOpt func(*WriterTracer)

// WithoutColor disables colored outcomes.
func WithoutColor() WriterTracerOpt {
	return func(t *WriterTracer) {
		t.success.DisableColor()
		t.failure.DisableColor()
	}
}

// NewWriterTracer returns a Tracer writing to out.
func NewWriterTracer(out io.Writer, opts ...WriterTracerOpt) *WriterTracer {
	t := &WriterTracer{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *WriterTracer) Trace(description string, outcome string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.failure
	if outcome == it.OutcomeSuccess {
		c = t.success
	}

	// Tracing must not affect the command, write errors are dropped.
	_, _ = fmt.Fprintf(t.out, "%s -> %s\n", description, c.Sprint(outcome))
}
