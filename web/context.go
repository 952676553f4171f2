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

package web

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/ooneex/eagle-sub001/container"
)

// RouteInfo describes the route matched for a request.
type RouteInfo struct {
	// Name is the route name.
	Name string

	// Controller is the container key of the controller.
	Controller string

	// Path is the matched path template.
	Path string

	// Roles are the roles required by the route.
	Roles []string
}

// Context is the per-request bag threaded through middlewares, validators
// and the controller.
type Context struct {
	Request  *Request
	Response *Response
	Store    *Store

	// Route is nil until the route has been resolved.
	Route *RouteInfo

	// Scope resolves request-lifetime components. It may be nil.
	Scope *container.Scope

	// Logger is the request logger.
	Logger *slog.Logger

	// Err is the error handled by a fallback controller.
	Err error
}

// ContextOption configures a [Context].
type ContextOption func(*Context)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *Context) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithScope binds a container scope to the context.
func WithScope(s *container.Scope) ContextOption {
	return func(c *Context) {
		c.Scope = s
	}
}

// WithRequestOptions passes options to [NewRequest].
func WithRequestOptions(opts ...RequestOption) ContextOption {
	return func(c *Context) {
		c.Request = NewRequest(c.Request.raw, opts...)
	}
}

// NewContext creates the context for r with an empty 200 response and a
// fresh store.
func NewContext(r *http.Request, opts ...ContextOption) *Context {
	c := &Context{
		Request: NewRequest(r),
		Store:   NewStore(),
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Response = NewResponse(c.Logger)

	return c
}

// Context returns the context of the underlying request.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Param returns the path parameter key.
func (c *Context) Param(key string) string {
	return c.Request.Param(key)
}

// Get resolves key from the request scope. It returns nil when the context
// has no scope or the key is not registered.
func (c *Context) Get(key string) (any, error) {
	if c.Scope == nil {
		return nil, nil
	}

	return c.Scope.Get(key)
}

// HasRole reports whether role is required by the matched route.
func (c *Context) HasRole(role string) bool {
	return c.Route != nil && slices.Contains(c.Route.Roles, role)
}
