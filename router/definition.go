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
	"net/http"
	"slices"
	"strings"

	"github.com/ooneex/eagle-sub001/container"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/router/compiler"
	"github.com/ooneex/eagle-sub001/validation"
)

// AnyMethod expands to [Methods] when used in [Definition.Methods].
const AnyMethod = "*"

// Methods is the method set a wildcard expands to.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

var knownMethods = append(slices.Clone(Methods), http.MethodConnect, http.MethodTrace)

// Definition describes a route.
type Definition struct {
	// Name identifies the route. It defaults to the controller key, with
	// the first path appended when the controller already has a route.
	Name string

	// Controller is the container key of the controller.
	Controller string

	// Paths are the path templates, such as "/users/:id".
	Paths []string

	// Methods are the accepted HTTP methods; "*" accepts [Methods].
	Methods []string

	// Host restricts the request host. Empty accepts any host.
	Host []Matcher

	// IP restricts the client IP. Empty accepts any client.
	IP []Matcher

	// Roles required to access the route, enforced by auth middlewares.
	Roles []string

	// Lifetime is the controller lifetime. Empty uses the container lookup order.
	Lifetime container.Lifetime

	Validators  []validation.Entry
	Middlewares []middleware.Entry

	Description string

	patterns []*compiler.Pattern
}

// ControllerName implements validation.RouteConfig.
func (d *Definition) ControllerName() string {
	return d.Controller
}

// ValidatorEntries implements validation.RouteConfig.
func (d *Definition) ValidatorEntries() []validation.Entry {
	return d.Validators
}

// MiddlewareEntries implements middleware.RouteConfig.
func (d *Definition) MiddlewareEntries() []middleware.Entry {
	return d.Middlewares
}

// Patterns returns the compiled path templates, one per path.
func (d *Definition) Patterns() []*compiler.Pattern {
	return d.patterns
}

// AcceptsMethod reports whether method is one of the route methods.
func (d *Definition) AcceptsMethod(method string) bool {
	return slices.Contains(d.Methods, strings.ToUpper(method))
}

// normalize validates d and fills the derived fields: paths are
// normalized and compiled, and methods are upper-cased and expanded.
func (d *Definition) normalize() error {
	d.Controller = strings.TrimSpace(d.Controller)
	if d.Controller == "" {
		return ErrEmptyController
	}
	if len(d.Paths) == 0 {
		return fmt.Errorf("%w: %s", ErrNoPaths, d.Controller)
	}
	if d.Lifetime != "" && !d.Lifetime.Valid() {
		return fmt.Errorf("%w: %q", container.ErrInvalidLifetime, d.Lifetime)
	}

	paths := make([]string, 0, len(d.Paths))
	patterns := make([]*compiler.Pattern, 0, len(d.Paths))
	for _, path := range d.Paths {
		p, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("route %s: %w", d.Controller, err)
		}
		if slices.Contains(paths, p.String()) {
			continue
		}
		paths = append(paths, p.String())
		patterns = append(patterns, p)
	}
	d.Paths = paths
	d.patterns = patterns

	methods, err := expandMethods(d.Methods)
	if err != nil {
		return fmt.Errorf("route %s: %w", d.Controller, err)
	}
	d.Methods = methods

	for _, e := range d.Middlewares {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("route %s: %w", d.Controller, err)
		}
	}
	for _, e := range d.Validators {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("route %s: %w", d.Controller, err)
		}
	}

	return nil
}

func expandMethods(methods []string) ([]string, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: no methods", ErrInvalidMethod)
	}

	out := make([]string, 0, len(methods))
	add := func(m string) {
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		switch {
		case m == AnyMethod:
			for _, each := range Methods {
				add(each)
			}
		case slices.Contains(knownMethods, m):
			add(m)
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, m)
		}
	}

	return out, nil
}
