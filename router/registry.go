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

package router

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/ooneex/eagle-sub001/router/compiler"
)

// Query describes the request to resolve.
type Query struct {
	Path   string
	Method string
	Host   string
	IP     string
}

// Match is the result of a successful resolution.
type Match struct {
	Route  *Definition
	Params map[string]string

	// Pattern is the template that matched the path.
	Pattern *compiler.Pattern
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger used to report registrations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry stores route definitions.
type Registry struct {
	logger *slog.Logger

	mu     sync.RWMutex
	routes []*Definition
	byName map[string]*Definition
	index  *compiler.Index[*Definition]
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: slog.New(slog.DiscardHandler),
		byName: make(map[string]*Definition),
		index:  compiler.NewIndex[*Definition](),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register validates def and stores a copy of it. The returned definition
// carries the normalized paths, the expanded methods and the final name.
func (r *Registry) Register(def Definition) (*Definition, error) {
	d := def
	d.Paths = slices.Clone(def.Paths)
	d.Methods = slices.Clone(def.Methods)
	d.Roles = slices.Clone(def.Roles)
	d.Host = slices.Clone(def.Host)
	d.IP = slices.Clone(def.IP)
	d.Validators = slices.Clone(def.Validators)
	d.Middlewares = slices.Clone(def.Middlewares)
	if err := d.normalize(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return nil, ErrRegistryFrozen
	}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		d.Name = r.defaultName(&d)
	}
	if _, ok := r.byName[d.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateRouteName, d.Name)
	}

	r.routes = append(r.routes, &d)
	r.byName[d.Name] = &d
	for _, p := range d.patterns {
		r.index.Add(p, &d)
	}

	for _, e := range d.Validators {
		if !e.Dispatchable() {
			r.logger.Debug("validator never dispatched", "route", d.Name, "scope", string(e.EffectiveScope()))
		}
	}
	r.logger.Debug("route registered",
		"name", d.Name,
		"controller", d.Controller,
		"paths", d.Paths,
		"methods", d.Methods,
	)

	return &d, nil
}

// MustRegister is like [Registry.Register] but panics on error.
func (r *Registry) MustRegister(def Definition) *Definition {
	d, err := r.Register(def)
	if err != nil {
		panic(err)
	}

	return d
}

// defaultName returns the controller key, or the controller key followed
// by the first path when the controller already has a route.
func (r *Registry) defaultName(d *Definition) string {
	for _, existing := range r.routes {
		if existing.Controller == d.Controller {
			return d.Controller + d.Paths[0]
		}
	}

	return d.Controller
}

// Freeze rejects further registrations with [ErrRegistryFrozen].
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether [Registry.Freeze] was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.frozen
}

// FindRoute resolves q to a route. A miss is reported as [*NotFoundError]
// whether the path, the method, the host or the IP rejected the request.
func (r *Registry) FindRoute(q Query) (*Match, error) {
	r.mu.RLock()
	hits := r.index.Lookup(q.Path)
	r.mu.RUnlock()

	method := strings.ToUpper(q.Method)
	host := strings.ToLower(q.Host)
	for _, hit := range hits {
		d := hit.Value
		if !d.AcceptsMethod(method) {
			continue
		}
		if !matchAny(d.Host, host) {
			continue
		}
		if !matchAny(d.IP, q.IP) {
			continue
		}

		return &Match{Route: d, Params: hit.Params, Pattern: hit.Pattern}, nil
	}

	return nil, &NotFoundError{Path: q.Path, Method: q.Method, Host: q.Host, IP: q.IP}
}

// Route returns the route named name.
func (r *Registry) Route(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[name]
	return d, ok
}

// Routes returns the routes in registration order.
func (r *Registry) Routes() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.routes)
}

// Len returns the number of routes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.routes)
}

// URLFor builds the URL of the route named name from its first path.
// Query values are encoded in sorted key order.
func (r *Registry) URLFor(name string, params map[string]string, query url.Values) (string, error) {
	d, ok := r.Route(name)
	if !ok {
		return "", fmt.Errorf("%w: no route named %q", ErrRouteNotFound, name)
	}

	u, err := d.patterns[0].Build(params)
	if err != nil {
		return "", fmt.Errorf("route %q: %w", name, err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u, nil
}

// Controllers returns the distinct controller keys in registration order.
func (r *Registry) Controllers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.routes))
	var keys []string
	for _, d := range r.routes {
		if _, ok := seen[d.Controller]; ok {
			continue
		}
		seen[d.Controller] = struct{}{}
		keys = append(keys, d.Controller)
	}

	return keys
}
