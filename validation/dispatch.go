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
	"log/slog"
)

// RouteConfig is the part of a route definition the dispatcher reads.
type RouteConfig interface {
	// ControllerName returns the name reported in [FailedError].
	ControllerName() string

	// ValidatorEntries returns the validators attached to the route.
	ValidatorEntries() []Entry
}

// DispatchInput is one scope of request data and the route to validate it
// against.
type DispatchInput struct {
	Scope Scope
	Data  any
	Route RouteConfig
}

// Dispatcher runs route validators.
type Dispatcher struct {
	logger *slog.Logger
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

var defaultDispatcher = NewDispatcher()

// Dispatch runs in with a dispatcher that does not log.
func Dispatch(ctx context.Context, in DispatchInput) error {
	return defaultDispatcher.Dispatch(ctx, in)
}

// Dispatch runs, in registration order, every validator of in.Route whose
// scope equals in.Scope. It returns a [*FailedError] when any of them fails,
// or the first error a validator returns when it cannot run.
func (d *Dispatcher) Dispatch(ctx context.Context, in DispatchInput) error {
	if in.Route == nil || !in.Scope.Valid() {
		return nil
	}

	var (
		failed   bool
		failures []Detail
	)
	for _, entry := range in.Route.ValidatorEntries() {
		if entry.Validator == nil || entry.EffectiveScope() != in.Scope {
			continue
		}

		result, err := run(ctx, entry.Validator, in.Data)
		if err != nil {
			return fmt.Errorf("validator %T for %s (%s): %w", entry.Validator, in.Route.ControllerName(), in.Scope, err)
		}
		if !result.Success {
			failed = true
			failures = append(failures, result.Details...)
		}
	}

	if !failed {
		return nil
	}

	d.logger.Debug("validation failed",
		"controller", in.Route.ControllerName(),
		"scope", in.Scope,
		"details", len(failures),
	)

	return &FailedError{
		Controller: in.Route.ControllerName(),
		Scope:      in.Scope,
		Failures:   failures,
	}
}

func run(ctx context.Context, v Validator, data any) (Result, error) {
	if sv, ok := v.(SyncValidator); ok {
		return sv.ValidateSync(data), nil
	}

	return v.Validate(ctx, data)
}
