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
	"errors"
	"fmt"
	"net/http"
)

// Static errors for registration and resolution.
var (
	// ErrRouteNotFound indicates that no route matches a request.
	ErrRouteNotFound = errors.New("route not found")

	// ErrDuplicateRouteName indicates that a route name is already taken.
	ErrDuplicateRouteName = errors.New("duplicate route name")

	// ErrRegistryFrozen indicates a registration after [Registry.Freeze].
	ErrRegistryFrozen = errors.New("route registry is frozen")

	// ErrEmptyController indicates a definition without controller key.
	ErrEmptyController = errors.New("route controller is empty")

	// ErrNoPaths indicates a definition without paths.
	ErrNoPaths = errors.New("route has no paths")

	// ErrInvalidMethod indicates an unknown or missing HTTP method.
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// ErrInvalidMatcher indicates a host or IP rule that cannot be built.
	ErrInvalidMatcher = errors.New("invalid matcher")
)

// NotFoundError is returned by [Registry.FindRoute] when no route accepts
// the request.
type NotFoundError struct {
	Path   string
	Method string
	Host   string
	IP     string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("route not found: %s %s (host=%q ip=%q)", e.Method, e.Path, e.Host, e.IP)
}

// Unwrap returns [ErrRouteNotFound].
func (e *NotFoundError) Unwrap() error {
	return ErrRouteNotFound
}

// HTTPStatus implements errors.ErrorType.
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// Details implements errors.ErrorDetails.
func (e *NotFoundError) Details() any {
	return map[string]string{
		"path":   e.Path,
		"method": e.Method,
		"host":   e.Host,
		"ip":     e.IP,
	}
}

// IsNotFound reports whether err is a route resolution miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRouteNotFound)
}
