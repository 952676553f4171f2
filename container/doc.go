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

// Package container provides the dependency container used to build
// controllers, middlewares and validators.
//
// Components are registered under a string key with a constructor, a
// lifetime and an explicit dependency manifest. The manifest lists the keys
// whose instances are passed to the constructor, in order:
//
//	c := container.New()
//	_ = c.Add("db", func(container.Deps) (any, error) {
//	    return openDB()
//	})
//	_ = c.Add("UserController", func(d container.Deps) (any, error) {
//	    return &UserController{DB: container.Dep[*sql.DB](d, 0)}, nil
//	}, container.WithLifetime(container.Transient), container.WithDependencies("db"))
//
// # Lifetimes
//
//   - Singleton: built once, cached for the life of the container
//   - Transient: built on every resolution
//   - Request: cached per [Scope]; resolved from the root container it is
//     built on every resolution
//
// A key may be registered once per lifetime. When it is registered under
// several lifetimes, Get looks them up in the order singleton, request,
// transient.
//
// # Resolution
//
// Before anything is constructed the manifest graph reachable from the
// requested key is walked. A key that appears twice on the active path fails
// with a [CircularDependencyError] naming the cycle ("A -> B -> A").
// Dependencies that are not registered resolve to nil so optional leaf
// services can be left out. Unknown top-level keys resolve to nil without an
// error.
//
// Concurrent first resolution of a singleton is deduplicated per key.
package container
