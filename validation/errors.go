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

package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrValidationFailed is wrapped by [FailedError].
// Use errors.Is(err, ErrValidationFailed) to detect validation failures.
var ErrValidationFailed = errors.New("validation failed")

// Predefined validator errors.
var (
	// ErrInvalidTarget is returned when a struct validator is built for a non-struct type.
	ErrInvalidTarget = errors.New("validation target must be a struct")

	// ErrInvalidSchema is returned when a JSON Schema cannot be compiled.
	ErrInvalidSchema = errors.New("invalid JSON schema")

	// ErrInvalidEntry is returned for an entry without validator.
	ErrInvalidEntry = errors.New("invalid validator entry")
)

// FailedError aggregates the details of every failing validator of one
// scope.
type FailedError struct {
	// Controller is the controller owning the route.
	Controller string

	// Scope is the data scope that failed.
	Scope Scope

	// Failures lists the failed properties, validator by validator.
	Failures []Detail
}

// Error returns a summary such as
// "validation failed for UserController (payload): name: is required".
func (e *FailedError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	if e.Controller != "" {
		fmt.Fprintf(&b, " for %s", e.Controller)
	}
	if e.Scope != "" {
		fmt.Fprintf(&b, " (%s)", e.Scope)
	}
	for i, d := range e.Failures {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		if d.Property != "" {
			b.WriteString(d.Property)
			b.WriteString(": ")
		}
		b.WriteString(d.Message)
	}

	return b.String()
}

// Unwrap returns ErrValidationFailed.
func (e *FailedError) Unwrap() error {
	return ErrValidationFailed
}

// HTTPStatus returns 400.
func (e *FailedError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Details returns the failures for error formatters.
func (e *FailedError) Details() any {
	return e.Failures
}

// Code returns "validation_failed".
func (e *FailedError) Code() string {
	return "validation_failed"
}
