// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package transport

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrorKind classifies a RepositoryError.
type ErrorKind int

const (
	// KindTransport is a connection or IO failure raised while talking to the
	// repository.
	KindTransport ErrorKind = iota
	// KindUnexpectedStatus is a completed response whose status code is not
	// considered a success.
	KindUnexpectedStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnexpectedStatus:
		return "unexpected status"
	default:
		return "unknown"
	}
}

// RepositoryError is the error carried by a failed Result. It either wraps the
// transport error or describes an unexpected status code.
type RepositoryError struct {
	Kind       ErrorKind
	StatusCode int
	merr       *multierror.Error
}

// NewTransportError wraps a transport level error.
func NewTransportError(err error) *RepositoryError {
	if err == nil {
		err = errors.New("unknown transport error")
	}

	return &RepositoryError{
		Kind: KindTransport,
		merr: multierror.Append(&multierror.Error{}, err),
	}
}

// NewStatusError returns an error for a response that carried an unexpected
// status code.
func NewStatusError(statusCode int) *RepositoryError {
	return &RepositoryError{
		Kind:       KindUnexpectedStatus,
		StatusCode: statusCode,
		merr: multierror.Append(&multierror.Error{},
			fmt.Errorf("repository has returned status code %d", statusCode),
		),
	}
}

// Error returns the wrapped error message.
func (e *RepositoryError) Error() string {
	if len(e.merr.Errors) == 1 {
		return e.merr.Errors[0].Error()
	}

	return e.merr.Error()
}

func (e *RepositoryError) Unwrap() error {
	if len(e.merr.Errors) == 1 {
		return e.merr.Errors[0]
	}

	return e.merr.ErrorOrNil()
}

// Append adds a secondary error, e.g. a failure to release the connection
// after the primary failure.
func (e *RepositoryError) Append(err error) {
	if err == nil {
		return
	}

	e.merr = multierror.Append(e.merr, err)
}

// IsTransport returns true if err is a RepositoryError caused by a transport
// failure.
func IsTransport(err error) bool {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Kind == KindTransport
	}

	return false
}

// StatusCode returns the unexpected status code carried by err, if any.
func StatusCode(err error) (int, bool) {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) && repoErr.Kind == KindUnexpectedStatus {
		return repoErr.StatusCode, true
	}

	return 0, false
}
