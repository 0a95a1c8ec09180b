// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package transport

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSuccess(t *testing.T) {
	t.Parallel()

	res := Success("hello")
	require.True(t, res.IsSuccess())
	require.Nil(t, res.Err())
	assert.Equal(t, "hello", res.Get())
	assert.Equal(t, "OK", res.String())

	val, err := res.Value()
	require.NoError(t, err)
	assert.Equal(t, "hello", val)
}

func TestResultFailure(t *testing.T) {
	t.Parallel()

	res := Failure[[]byte](NewStatusError(404))
	require.False(t, res.IsSuccess())
	require.NotNil(t, res.Err())
	assert.Equal(t, "FAILED (repository has returned status code 404)", res.String())

	val, err := res.Value()
	require.Error(t, err)
	assert.Nil(t, val)

	code, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, 404, code)
}

func TestResultGetOnFailurePanics(t *testing.T) {
	t.Parallel()

	res := Failure[string](NewTransportError(io.ErrUnexpectedEOF))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		cv, ok := r.(ContractViolation)
		require.True(t, ok, "expected a ContractViolation, got %T", r)
		assert.True(t, errors.Is(cv.Err, io.ErrUnexpectedEOF))
	}()

	_ = res.Get()
	t.Fatal("Get on a failure did not panic")
}

func TestFailureWithoutErrorPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		_ = Failure[Void](nil)
	})
}

func TestRepositoryErrorClassification(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name       string
		err        error
		transport  bool
		statusCode int
		hasStatus  bool
	}{
		{
			name:      "transport",
			err:       NewTransportError(io.ErrClosedPipe),
			transport: true,
		},
		{
			name:       "status",
			err:        NewStatusError(500),
			statusCode: 500,
			hasStatus:  true,
		},
		{
			name:       "wrapped status",
			err:        fmt.Errorf("listing children: %w", NewStatusError(302)),
			statusCode: 302,
			hasStatus:  true,
		},
		{
			name: "other",
			err:  errors.New("boom"),
		},
	} {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.transport, IsTransport(test.err))
			code, ok := StatusCode(test.err)
			assert.Equal(t, test.hasStatus, ok)
			assert.Equal(t, test.statusCode, code)
		})
	}
}

func TestRepositoryErrorAppend(t *testing.T) {
	t.Parallel()

	err := NewTransportError(io.ErrUnexpectedEOF)
	require.Equal(t, io.ErrUnexpectedEOF.Error(), err.Error())
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	err.Append(nil)
	require.Equal(t, io.ErrUnexpectedEOF.Error(), err.Error())

	closeErr := errors.New("closing response body")
	err.Append(closeErr)
	assert.Contains(t, err.Error(), io.ErrUnexpectedEOF.Error())
	assert.Contains(t, err.Error(), closeErr.Error())
	assert.True(t, errors.Is(err, closeErr))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestCommandFunc(t *testing.T) {
	t.Parallel()

	calls := 0
	cmd := NewCommandFunc("   NOOP /", func() Result[Void] {
		calls++
		return Success(Void{})
	})

	assert.Equal(t, "   NOOP /", cmd.Description())
	assert.True(t, cmd.Execute().IsSuccess())
	assert.True(t, cmd.Execute().IsSuccess())
	assert.Equal(t, 2, calls)
}
