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

package middleware

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ooneex/eagle-sub001/web"
)

// Event selects when a middleware runs.
type Event string

// Supported events.
const (
	EventRequest  Event = "request"
	EventResponse Event = "response"
)

// Valid reports whether e is a supported event.
func (e Event) Valid() bool {
	return e == EventRequest || e == EventResponse
}

// Static errors for the middleware package.
var (
	// ErrHalt stops the request phase without an error response. The
	// response of the returned context is sent after the response
	// middlewares ran.
	ErrHalt = errors.New("middleware: halt")

	// ErrInvalidEvent is returned by Use for an unknown event.
	ErrInvalidEvent = errors.New("middleware: invalid event")

	// ErrNilMiddleware is returned by Use for an entry without middleware.
	ErrNilMiddleware = errors.New("middleware: nil middleware")
)

// Middleware transforms the request context.
type Middleware interface {
	Next(c *web.Context) (*web.Context, error)
}

// Func adapts a function to [Middleware].
type Func func(c *web.Context) (*web.Context, error)

// Next calls f.
func (f Func) Next(c *web.Context) (*web.Context, error) {
	return f(c)
}

// Halt returns c together with [ErrHalt].
func Halt(c *web.Context) (*web.Context, error) {
	return c, ErrHalt
}

// Entry attaches a middleware to an event.
type Entry struct {
	Event Event

	// Priority orders entries of the same event; lower runs first.
	Priority int

	Middleware Middleware
}

// RouteConfig is the part of a route definition the dispatcher reads.
type RouteConfig interface {
	MiddlewareEntries() []Entry
}

// Dispatcher holds the global middleware entries.
// It is safe for concurrent use.
type Dispatcher struct {
	logger *slog.Logger

	mu      sync.RWMutex
	entries []Entry
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

// NewDispatcher creates a dispatcher without entries.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Use appends global entries.
func (d *Dispatcher) Use(entries ...Entry) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, entries...)

	return nil
}

// Entries returns the global entries in registration order.
func (d *Dispatcher) Entries() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.entries)
}

// Dispatch runs the global entries of event.
func (d *Dispatcher) Dispatch(event Event, c *web.Context) (*web.Context, error) {
	d.mu.RLock()
	entries := d.entries
	d.mu.RUnlock()

	return d.run(event, entries, c)
}

// DispatchController runs the entries of route for event.
func (d *Dispatcher) DispatchController(event Event, c *web.Context, route RouteConfig) (*web.Context, error) {
	if route == nil {
		return c, nil
	}

	return d.run(event, route.MiddlewareEntries(), c)
}

// Run runs the entries of event on c without a dispatcher.
func Run(event Event, entries []Entry, c *web.Context) (*web.Context, error) {
	return defaultDispatcher.run(event, entries, c)
}

var defaultDispatcher = NewDispatcher()

func (d *Dispatcher) run(event Event, entries []Entry, c *web.Context) (*web.Context, error) {
	selected := Select(event, entries)
	if len(selected) == 0 {
		return c, nil
	}

	current := c
	for _, e := range selected {
		next, err := e.Middleware.Next(current)
		if next != nil {
			current = next
		}
		if err != nil {
			if !errors.Is(err, ErrHalt) {
				d.logger.Debug("middleware failed", "event", event, "middleware", fmt.Sprintf("%T", e.Middleware), "error", err)
			}
			return current, err
		}
	}

	return current, nil
}

// Select returns the entries of event, stable-sorted by ascending priority.
// Entries without middleware are skipped.
func Select(event Event, entries []Entry) []Entry {
	var selected []Entry
	for _, e := range entries {
		if e.Event == event && e.Middleware != nil {
			selected = append(selected, e)
		}
	}
	slices.SortStableFunc(selected, func(a, b Entry) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	return selected
}

// Validate checks that e has a known event and a middleware.
func (e Entry) Validate() error {
	if !e.Event.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidEvent, e.Event)
	}
	if e.Middleware == nil {
		return ErrNilMiddleware
	}

	return nil
}
