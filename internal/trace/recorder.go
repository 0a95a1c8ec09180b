// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"

	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

// Record is a single traced command execution.
type Record struct {
	ID          uuid.UUID
	Time        time.Time
	Description string
	Outcome     string
}

// Succeeded returns whether the traced command succeeded.
func (r Record) Succeeded() bool {
	return r.Outcome == it.OutcomeSuccess
}

var _ Tracer = (*Recorder)(nil)

// Recorder is a Tracer that keeps every record in memory. It is safe for
// concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	now     func() time.Time
}

// NewRecorder returns a new empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		records: []Record{},
		now:     time.Now,
	}
}

// Trace records the execution.
func (r *Recorder) Trace(description string, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, Record{
		ID:          uuid.New(),
		Time:        r.now(),
		Description: description,
		Outcome:     outcome,
	})
}

// Records returns a copy of all records in the order they were traced.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)

	return out
}

// Failures returns the records of the commands that failed.
func (r *Recorder) Failures() []Record {
	failed := []Record{}
	for _, rec := range r.Records() {
		if !rec.Succeeded() {
			failed = append(failed, rec)
		}
	}

	return failed
}

// Reset drops all records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = []Record{}
}
