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
	"context"
	"fmt"
)

// Detail describes one failed property.
type Detail struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

// Result is the outcome of one validator run.
type Result struct {
	Success bool     `json:"success"`
	Details []Detail `json:"details,omitempty"`
}

// Ok returns a successful result.
func Ok() Result {
	return Result{Success: true}
}

// Fail returns a failed result with the given details.
func Fail(details ...Detail) Result {
	return Result{Success: false, Details: details}
}

// Validator checks one segment of the request.
// An error return means the validator could not run; a failed check is
// reported through the Result.
type Validator interface {
	Validate(ctx context.Context, data any) (Result, error)

	// Scope returns the segment the validator applies to.
	Scope() Scope
}

// SyncValidator is implemented by validators that never block.
// The dispatcher prefers ValidateSync when it is available.
type SyncValidator interface {
	Validator
	ValidateSync(data any) Result
}

// Entry attaches a validator to a route.
type Entry struct {
	// Scope overrides the validator's own scope when set.
	Scope Scope

	Validator Validator
}

// EffectiveScope returns the entry scope, or the validator scope when the
// entry leaves it empty.
func (e Entry) EffectiveScope() Scope {
	if e.Scope != "" {
		return e.Scope
	}
	if e.Validator == nil {
		return ""
	}

	return e.Validator.Scope()
}

// Validate checks that e has a validator. An entry whose scope is empty or
// unsupported is accepted; the dispatcher never runs it.
func (e Entry) Validate() error {
	if e.Validator == nil {
		return fmt.Errorf("%w: nil validator", ErrInvalidEntry)
	}

	return nil
}

// Dispatchable reports whether the effective scope of e is supported.
func (e Entry) Dispatchable() bool {
	return e.EffectiveScope().Valid()
}

// funcValidator adapts a function to [SyncValidator].
type funcValidator struct {
	scope Scope
	fn    func(data any) Result
}

// Func returns a validator for scope that calls fn.
func Func(scope Scope, fn func(data any) Result) SyncValidator {
	return &funcValidator{scope: scope, fn: fn}
}

func (v *funcValidator) Scope() Scope { return v.scope }

func (v *funcValidator) Validate(_ context.Context, data any) (Result, error) {
	return v.fn(data), nil
}

func (v *funcValidator) ValidateSync(data any) Result {
	return v.fn(data)
}
