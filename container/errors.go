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

package container

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for the container.
var (
	// ErrCircularDependency is wrapped by [CircularDependencyError].
	ErrCircularDependency = errors.New("circular dependency")

	// ErrDuplicateKey is wrapped by [DuplicateKeyError].
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidLifetime is returned when a registration names an unknown lifetime.
	ErrInvalidLifetime = errors.New("invalid lifetime")

	// ErrNilConstructor is returned when a registration has no constructor.
	ErrNilConstructor = errors.New("nil constructor")

	// ErrEmptyKey is returned when a registration has an empty key.
	ErrEmptyKey = errors.New("empty key")

	// ErrScopeClosed is returned when resolving from a closed [Scope].
	ErrScopeClosed = errors.New("scope closed")

	// ErrTypeMismatch is returned by [Resolve] when the instance has another type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// CircularDependencyError reports a cycle in the dependency manifests.
type CircularDependencyError struct {
	// Cycle lists the keys along the cycle; the first key is repeated last.
	Cycle []string
}

// Error returns "circular dependency detected: A -> B -> A".
func (e *CircularDependencyError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Cycle, " -> ")
}

// Unwrap returns ErrCircularDependency.
func (e *CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}

// HTTPStatus returns 500.
func (e *CircularDependencyError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// DuplicateKeyError reports a key registered twice under the same lifetime.
type DuplicateKeyError struct {
	Key      string
	Lifetime Lifetime
}

// Error returns the duplicated key and lifetime.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q already registered as %s", e.Key, e.Lifetime)
}

// Unwrap returns ErrDuplicateKey.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// ConstructionError wraps an error returned by a constructor.
type ConstructionError struct {
	Key      string
	Lifetime Lifetime
	Err      error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %q (%s): %v", e.Key, e.Lifetime, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
