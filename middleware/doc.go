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

// Package middleware runs ordered middleware chains around the request
// handler.
//
// A [Middleware] receives the request [web.Context] and returns the context
// the next middleware should see. Entries are attached either globally,
// through a [Dispatcher], or to a single route, and each declares the event
// it runs on:
//
//   - EventRequest: before the controller
//   - EventResponse: after the controller, once a response exists
//
// For one event, entries run strictly one after the other in ascending
// Priority order. Entries with the same priority keep their registration
// order. A middleware may mutate the store, replace the response or return a
// different context; returning a nil context keeps the previous one. A
// returned error stops the chain and is handed to the error fallbacks,
// except [ErrHalt] which ends the request phase and sends the current
// response.
//
// When no entry matches the event, the context is returned unchanged.
//
// Example:
//
//	d := middleware.NewDispatcher()
//	d.Use(middleware.Entry{
//	    Event:      middleware.EventRequest,
//	    Priority:   -10,
//	    Middleware: requestid.New(),
//	})
//	c, err := d.Dispatch(middleware.EventRequest, c)
//
// Bundled middlewares live in the sub-packages accesslog, cors, jwtauth,
// ratelimit, requestid and security. Prometheus metrics entries come from
// the top-level metrics package.
package middleware
