// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package mock

import (
	"fmt"
	"sync"

	"github.com/hashicorp-forge/sling-transport/internal/repository"
	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

var _ repository.Repository = (*Repository)(nil)

// Repository is a Repository that never talks to the network, useful for
// testing. Its commands succeed with zero values unless a failure is set.
type Repository struct {
	info    repository.RepositoryInfo
	binding *trace.Binding

	mu       sync.Mutex
	failures map[string]*it.RepositoryError
	executed []string
}

type Opt func(*Repository) *Repository

// WithInfo sets the info returned by Info.
func WithInfo(info repository.RepositoryInfo) Opt {
	return func(r *Repository) *Repository {
		r.info = info
		return r
	}
}

// WithFailure makes every command whose target is path fail with err.
func WithFailure(path string, err *it.RepositoryError) Opt {
	return func(r *Repository) *Repository {
		r.failures[path] = err
		return r
	}
}

// New creates a new mock Repository.
func New(opts ...Opt) *Repository {
	r := &Repository{
		binding:  &trace.Binding{},
		failures: map[string]*it.RepositoryError{},
		executed: []string{},
	}

	for _, opt := range opts {
		r = opt(r)
	}

	return r
}

// Executed returns the descriptions of every executed command.
func (r *Repository) Executed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.executed))
	copy(out, r.executed)

	return out
}

func describe(verb string, target string) string {
	return fmt.Sprintf("%8s %s", verb, target)
}

func describeWithType(verb string, target string, rt repository.ResponseType) string {
	return fmt.Sprintf("%8s %s (%s)", verb, target, rt)
}

func command[T any](r *Repository, desc string, target string) it.Command[T] {
	return trace.Wrap[T](it.NewCommandFunc(desc, func() it.Result[T] {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.executed = append(r.executed, desc)
		if err, ok := r.failures[target]; ok {
			return it.Failure[T](err)
		}

		var zero T
		return it.Success(zero)
	}), r.binding)
}

func (r *Repository) NewAddNodeCommand(fileInfo repository.FileInfo) it.Command[it.Void] {
	return command[it.Void](r, describe("ADD", fileInfo.NodePath()), fileInfo.NodePath())
}

func (r *Repository) NewDeleteNodeCommand(fileInfo repository.FileInfo) it.Command[it.Void] {
	return command[it.Void](r, describe("DELETE", fileInfo.NodePath()), fileInfo.NodePath())
}

func (r *Repository) NewListChildrenNodeCommand(path string, responseType repository.ResponseType) it.Command[string] {
	return command[string](r, describeWithType("LISTCH", path, responseType), path)
}

func (r *Repository) NewGetNodeCommand(path string) it.Command[[]byte] {
	return command[[]byte](r, describe("GETNODE", path), path)
}

func (r *Repository) NewGetNodeContentCommand(path string, responseType repository.ResponseType) it.Command[string] {
	return command[string](r, describeWithType("GETCONT", path, responseType), path)
}

func (r *Repository) NewUpdateContentNodeCommand(fileInfo repository.FileInfo, properties map[string]string) it.Command[it.Void] {
	return command[it.Void](r, describe("UPDATE", fileInfo.NodePath()), fileInfo.NodePath())
}

func (r *Repository) BindTracer(tracer trace.Tracer) {
	r.binding.Bind(tracer)
}

func (r *Repository) UnbindTracer() {
	r.binding.Unbind()
}

func (r *Repository) Info() repository.RepositoryInfo {
	return r.info
}
