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

package app

import (
	"fmt"
	"strings"
)

// ConfigError describes one invalid setting.
type ConfigError struct {
	Field      string
	Value      any
	Message    string
	Constraint string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Constraint != "":
		return fmt.Sprintf("configuration error in %s: %s (constraint: %s, value: %v)", e.Field, e.Message, e.Constraint, e.Value)
	case e.Value != nil:
		return fmt.Sprintf("configuration error in %s: %s (value: %v)", e.Field, e.Message, e.Value)
	default:
		return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
	}
}

// ValidationError collects every invalid setting found by one validation
// pass.
type ValidationError struct {
	Errors []*ConfigError
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation errors: (no errors)"
	case 1:
		return ve.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "validation errors (%d):", len(ve.Errors))
	for i, err := range ve.Errors {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, err)
	}

	return b.String()
}

// Add appends err.
func (ve *ValidationError) Add(err *ConfigError) {
	ve.Errors = append(ve.Errors, err)
}

// ToError returns ve, or nil when it holds no errors.
func (ve *ValidationError) ToError() error {
	if len(ve.Errors) == 0 {
		return nil
	}

	return ve
}

func newEmptyFieldError(field string) *ConfigError {
	return &ConfigError{Field: field, Message: "cannot be empty", Constraint: "required"}
}

func newInvalidEnumError(field string, value any, valid []string) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Message:    fmt.Sprintf("must be one of: %v", valid),
		Constraint: fmt.Sprintf("enum: %v", valid),
	}
}

func newPositiveError(field string, value any) *ConfigError {
	return &ConfigError{Field: field, Value: value, Message: "must be positive", Constraint: "> 0"}
}

func newInvalidValueError(field string, value any, message string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Message: message}
}
