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

// Package router stores route definitions and resolves requests to them.
//
// A [Definition] names the controller (a container key) that handles one or
// more path templates for a set of methods, optionally restricted by host
// and client IP. Definitions also carry the validators, middlewares and
// roles the request handler applies once the route is matched.
//
//	reg := router.NewRegistry()
//	reg.MustRegister(router.Definition{
//	    Controller: "UserController",
//	    Paths:      []string{"/users/:id"},
//	    Methods:    []string{"GET"},
//	    Host:       []router.Matcher{router.Literal("api.example.com")},
//	})
//
//	m, err := reg.FindRoute(router.Query{Path: "/users/42", Method: "GET", Host: "api.example.com"})
//	// m.Params["id"] == "42"
//
// # Resolution
//
// Candidates are the routes with a path template matching the request path,
// literal templates first, then templates with more literal segments, then
// registration order. The first candidate accepting the method, the host
// and the client IP wins. Any miss fails with a [*NotFoundError].
//
// Registration is expected at startup. [Registry.Freeze] rejects later
// registrations; lookups are safe for concurrent use.
package router
