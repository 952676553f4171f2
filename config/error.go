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

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNilContext is returned by Load when called with a nil context.
	ErrNilContext = errors.New("config: context cannot be nil")

	// ErrNilSource is returned by WithSource for a nil source.
	ErrNilSource = errors.New("config: source cannot be nil")

	// ErrInvalidBinding is returned by WithBinding for a target that is not a
	// pointer to a struct.
	ErrInvalidBinding = errors.New("config: binding must be a non-nil pointer to a struct")

	// ErrKeyNotFound is returned by GetE when the key is absent.
	ErrKeyNotFound = errors.New("config: key not found")
)

// Error describes a failure while loading or binding configuration.
type Error struct {
	Source    string // e.g. "source[0]", "json-schema", "binding"
	Field     string
	Operation string // e.g. "load", "merge", "validate", "bind"
	Err       error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config: %s.%s: %s: %v", e.Source, e.Field, e.Operation, e.Err)
	}

	return fmt.Sprintf("config: %s: %s: %v", e.Source, e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}
