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

package errors

import (
	"fmt"
	"maps"
	"net/http"
	"runtime"
	"strings"
)

// maxFrames caps the number of stack frames an Exception captures.
const maxFrames = 32

// Frame is a single captured stack frame.
type Frame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// String returns the frame as "function (file:line)".
func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}

// Exception is the base error raised by the framework.
// It implements [ErrorType] and [ErrorDetails] so formatters pick up its
// status and data without knowing the concrete type.
type Exception struct {
	message string
	status  int
	data    map[string]any
	frames  []Frame
	cause   error
}

// ExceptionOption configures an [Exception].
type ExceptionOption func(*Exception)

// Status sets the HTTP status carried by the exception.
func Status(code int) ExceptionOption {
	return func(e *Exception) {
		e.status = code
	}
}

// WithData attaches structured data to the exception.
func WithData(data map[string]any) ExceptionOption {
	return func(e *Exception) {
		e.data = maps.Clone(data)
	}
}

// WithCause records the error that caused the exception.
func WithCause(err error) ExceptionOption {
	return func(e *Exception) {
		e.cause = err
	}
}

// New creates an Exception with the given message and captures the caller's
// stack frames.
func New(message string, opts ...ExceptionOption) *Exception {
	e := &Exception{
		message: message,
		status:  http.StatusInternalServerError,
		frames:  captureFrames(3),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Newf creates an Exception with a formatted message.
func Newf(format string, args ...any) *Exception {
	e := New(fmt.Sprintf(format, args...))
	e.frames = captureFrames(3)

	return e
}

// Wrap creates an Exception caused by err.
// The status of err is inherited when it implements [ErrorType].
func Wrap(err error, message string, opts ...ExceptionOption) *Exception {
	e := New(message, append([]ExceptionOption{WithCause(err)}, opts...)...)
	e.frames = captureFrames(3)
	if err != nil && e.status == http.StatusInternalServerError {
		e.status = StatusOf(err)
	}

	return e
}

// Error returns the exception message.
func (e *Exception) Error() string {
	return e.message
}

// Message returns the exception message.
func (e *Exception) Message() string {
	return e.message
}

// HTTPStatus implements [ErrorType].
func (e *Exception) HTTPStatus() int {
	if e.status < 100 || e.status > 599 {
		return http.StatusInternalServerError
	}

	return e.status
}

// Details implements [ErrorDetails]. It returns the exception data.
func (e *Exception) Details() any {
	if len(e.data) == 0 {
		return nil
	}

	return e.data
}

// Data returns a copy of the exception data.
func (e *Exception) Data() map[string]any {
	return maps.Clone(e.data)
}

// Frames returns the stack frames captured when the exception was created.
func (e *Exception) Frames() []Frame {
	return e.frames
}

// Stack returns the captured frames, one per line.
func (e *Exception) Stack() string {
	var b strings.Builder
	for _, f := range e.frames {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}

	return b.String()
}

// Unwrap returns the cause of the exception.
func (e *Exception) Unwrap() error {
	return e.cause
}

func captureFrames(skip int) []Frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, n)
	for {
		frame, more := frames.Next()
		out = append(out, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}

	return out
}
