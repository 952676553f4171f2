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

// Package app runs the request pipeline of the framework behind an HTTP
// server.
//
// # Overview
//
// An [App] owns a route registry, a dependency container and a middleware
// dispatcher. Every request goes through the same steps:
//
//   - header sniffing: JSON, msgpack and YAML bodies are decoded into the
//     payload; multipart and urlencoded bodies into the form
//   - request middlewares, global then route-level
//   - route matching by path, method, host and client IP
//   - route validators for the params, queries, payload, cookies, files,
//     form and env scopes
//   - the controller, resolved from the container by key
//   - response middlewares, route-level then global
//
// Any failure goes to the NotFoundController or ServerExceptionController
// when registered, otherwise to the error formatter.
//
// # Constructor Pattern
//
// New returns (*App, error) and reports every invalid setting at once.
// MustNew panics instead. Options use the "With" prefix; server settings
// are grouped under [WithServerConfig].
//
// # Quick Start
//
//	a := app.MustNew(app.WithServiceName("orders"))
//
//	a.MustRoute(router.Definition{
//	    Controller: "OrderController",
//	    Paths:      []string{"/orders/:id"},
//	    Methods:    []string{http.MethodGet},
//	}, container.Value(app.ControllerFunc(func(c *web.Context) (*web.Response, error) {
//	    return c.Response.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
//	})))
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	if err := a.Start(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lifecycle
//
// OnStart hooks run before the listener opens and abort startup on error.
// OnReady runs once the server accepts connections. On context cancellation
// OnShutdown hooks run in reverse order, the server drains, then OnStop runs.
//
// # Testing
//
// [App.Test] and [App.TestJSON] serve a request without a listener.
package app
