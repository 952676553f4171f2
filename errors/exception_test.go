// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !integration

package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	e := New("boom")

	assert.Equal(t, "boom", e.Error())
	assert.Equal(t, "boom", e.Message())
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
	assert.Nil(t, e.Details())
	assert.Nil(t, e.Unwrap())
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("disk full")
	data := map[string]any{"path": "/tmp"}
	e := New("write failed", Status(http.StatusInsufficientStorage), WithData(data), WithCause(cause))

	assert.Equal(t, http.StatusInsufficientStorage, e.HTTPStatus())
	assert.Equal(t, data, e.Details())
	assert.ErrorIs(t, e, cause)

	data["path"] = "/var"
	assert.Equal(t, "/tmp", e.Data()["path"], "data must be copied")
}

func TestException_InvalidStatusFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusInternalServerError, New("x", Status(1000)).HTTPStatus())
}

func TestException_CapturesCaller(t *testing.T) {
	t.Parallel()

	e := New("trace me")
	frames := e.Frames()
	require.NotEmpty(t, frames)
	assert.True(t, strings.HasSuffix(frames[0].Function, "TestException_CapturesCaller"),
		"first frame should be the caller, got %s", frames[0].Function)
	assert.Contains(t, e.Stack(), "exception_test.go")

	f := Newf("value %d", 7)
	assert.Equal(t, "value 7", f.Error())
	require.NotEmpty(t, f.Frames())
	assert.True(t, strings.HasSuffix(f.Frames()[0].Function, "TestException_CapturesCaller"))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("inherits status", func(t *testing.T) {
		t.Parallel()
		cause := &testErrorWithStatus{message: "nope", status: http.StatusUnauthorized}
		e := Wrap(cause, "login failed")

		assert.Equal(t, http.StatusUnauthorized, e.HTTPStatus())
		assert.ErrorIs(t, e, cause)
		assert.True(t, strings.HasSuffix(e.Frames()[0].Function, "TestWrap.func1"))
	})

	t.Run("explicit status wins", func(t *testing.T) {
		t.Parallel()
		cause := &testErrorWithStatus{message: "nope", status: http.StatusUnauthorized}
		e := Wrap(cause, "login failed", Status(http.StatusForbidden))

		assert.Equal(t, http.StatusForbidden, e.HTTPStatus())
	})

	t.Run("found with As", func(t *testing.T) {
		t.Parallel()
		err := wrapf(New("inner", Status(http.StatusTeapot)), "outer")

		var e *Exception
		require.True(t, As(err, &e))
		assert.Equal(t, http.StatusTeapot, e.HTTPStatus())
	})
}
