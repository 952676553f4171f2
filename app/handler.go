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

package app

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"runtime/debug"

	"go4.org/netipx"

	"github.com/ooneex/eagle-sub001/container"
	apperrors "github.com/ooneex/eagle-sub001/errors"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/router"
	"github.com/ooneex/eagle-sub001/validation"
	"github.com/ooneex/eagle-sub001/web"
)

const (
	defaultMaxBodyBytes = 10 << 20
	defaultMaxMemory    = 32 << 20
)

// ErrControllerNotFound is returned when a route's controller key resolves
// to nothing.
var ErrControllerNotFound = errors.New("controller not registered")

// PanicError is the error handed to the fallbacks when the pipeline panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler turns requests into responses: it runs the global and route
// middlewares, resolves the route, validates every request scope and calls
// the controller. Any failure is converted to a response by the fallback
// controllers, so Handle always returns a response.
//
// Handler is safe for concurrent use once its registry and container are no
// longer modified.
type Handler struct {
	registry    *router.Registry
	container   *container.Container
	middlewares *middleware.Dispatcher
	validators  *validation.Dispatcher
	formatter   apperrors.Formatter
	logger      *slog.Logger

	env          map[string]string
	trusted      *netipx.IPSet
	maxBodyBytes int64
	maxMemory    int64
}

// HandlerOption configures a [Handler].
type HandlerOption func(*Handler)

// WithHandlerLogger sets the request logger. Default discards.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMiddlewares sets the dispatcher holding the global middlewares.
func WithMiddlewares(d *middleware.Dispatcher) HandlerOption {
	return func(h *Handler) {
		if d != nil {
			h.middlewares = d
		}
	}
}

// WithValidators sets the validator dispatcher.
func WithValidators(d *validation.Dispatcher) HandlerOption {
	return func(h *Handler) {
		if d != nil {
			h.validators = d
		}
	}
}

// WithFormatter sets the formatter of generic error responses.
// Default [apperrors.NewEnvelope].
func WithFormatter(f apperrors.Formatter) HandlerOption {
	return func(h *Handler) {
		if f != nil {
			h.formatter = f
		}
	}
}

// WithEnvValues sets the data validated in the env scope.
func WithEnvValues(env map[string]string) HandlerOption {
	return func(h *Handler) {
		h.env = maps.Clone(env)
	}
}

// WithHandlerTrustedProxies sets the peers whose forwarding headers are trusted
// for the client IP.
func WithHandlerTrustedProxies(set *netipx.IPSet) HandlerOption {
	return func(h *Handler) {
		h.trusted = set
	}
}

// WithHandlerBodyLimit bounds the bytes read from a request body during content
// sniffing. Default 10 MiB.
func WithHandlerBodyLimit(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler creates a handler over registry and c.
func NewHandler(registry *router.Registry, c *container.Container, opts ...HandlerOption) *Handler {
	h := &Handler{
		registry:     registry,
		container:    c,
		formatter:    apperrors.NewEnvelope(),
		logger:       slog.New(slog.DiscardHandler),
		env:          map[string]string{},
		maxBodyBytes: defaultMaxBodyBytes,
		maxMemory:    defaultMaxMemory,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.middlewares == nil {
		h.middlewares = middleware.NewDispatcher(middleware.WithLogger(h.logger))
	}
	if h.validators == nil {
		h.validators = validation.NewDispatcher(validation.WithLogger(h.logger))
	}

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.Handle(r)
	if err := resp.WriteTo(w); err != nil {
		h.logger.Debug("failed to write response", "error", err)
	}
}

// Handle runs the pipeline for r.
func (h *Handler) Handle(r *http.Request) *web.Response {
	scope := h.container.NewScope()
	defer func() {
		if err := scope.Close(); err != nil {
			h.logger.Warn("failed to close request scope", "error", err)
		}
	}()

	c := web.NewContext(r,
		web.WithLogger(h.logger),
		web.WithScope(scope),
		web.WithRequestOptions(web.WithTrustedProxies(h.trusted)),
	)
	h.sniff(c)

	out, err := h.run(c)
	if err != nil {
		out = h.fail(out, err)
	}

	return out.Response
}

// run executes the pipeline. The returned context is the last one produced,
// also when an error or panic stopped the pipeline.
func (h *Handler) run(c *web.Context) (current *web.Context, err error) {
	current = c
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()

	var def *router.Definition
	respond := func() error {
		if def != nil {
			current, err = h.middlewares.DispatchController(middleware.EventResponse, current, def)
			if err != nil && !errors.Is(err, middleware.ErrHalt) {
				return err
			}
		}
		current, err = h.middlewares.Dispatch(middleware.EventResponse, current)
		if errors.Is(err, middleware.ErrHalt) {
			return nil
		}
		return err
	}

	if current, err = h.middlewares.Dispatch(middleware.EventRequest, current); err != nil {
		if errors.Is(err, middleware.ErrHalt) {
			return current, respond()
		}
		return current, err
	}

	match, err := h.registry.FindRoute(router.Query{
		Path:   current.Request.Path,
		Method: current.Request.Method,
		Host:   current.Request.Host,
		IP:     current.Request.IP,
	})
	if err != nil {
		return current, err
	}
	def = match.Route
	current.Route = &web.RouteInfo{
		Name:       def.Name,
		Controller: def.Controller,
		Path:       match.Pattern.String(),
		Roles:      def.Roles,
	}
	current.Request.Params = match.Params

	if current, err = h.middlewares.DispatchController(middleware.EventRequest, current, def); err != nil {
		if errors.Is(err, middleware.ErrHalt) {
			return current, respond()
		}
		return current, err
	}

	if err = h.validate(current, def); err != nil {
		return current, err
	}

	ctrl, err := h.controller(current, def)
	if err != nil {
		return current, err
	}
	resp, err := ctrl.Action(current)
	if err != nil {
		return current, err
	}
	if resp != nil {
		current.Response = resp
	}

	return current, respond()
}

func (h *Handler) validate(c *web.Context, def *router.Definition) error {
	if len(def.Validators) == 0 {
		return nil
	}

	for _, scope := range validation.Scopes() {
		err := h.validators.Dispatch(c.Context(), validation.DispatchInput{
			Scope: scope,
			Data:  h.scopeData(c, scope),
			Route: def,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) scopeData(c *web.Context, scope validation.Scope) any {
	switch scope {
	case validation.ScopeParams:
		return c.Request.AllParams()
	case validation.ScopeQueries:
		return c.Request.Queries()
	case validation.ScopePayload:
		return c.Request.Payload
	case validation.ScopeCookies:
		return c.Request.Cookies()
	case validation.ScopeFiles:
		return c.Request.Files
	case validation.ScopeForm:
		return c.Request.FormValues()
	case validation.ScopeEnv:
		return maps.Clone(h.env)
	default:
		return nil
	}
}

// controller resolves the route's controller in the request scope, under
// the route lifetime when one is set.
func (h *Handler) controller(c *web.Context, def *router.Definition) (Controller, error) {
	var (
		inst any
		err  error
	)
	if def.Lifetime != "" {
		inst, err = c.Scope.GetIn(def.Controller, def.Lifetime)
	} else {
		inst, err = c.Scope.Get(def.Controller)
	}
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: %q", ErrControllerNotFound, def.Controller)
	}

	ctrl, ok := inst.(Controller)
	if !ok {
		return nil, fmt.Errorf("component %q of type %T is not a controller", def.Controller, inst)
	}

	return ctrl, nil
}

// fail converts err into a response through the fallback controllers, then
// runs the global response middlewares. Errors raised while doing so are
// logged and never replace the error response.
func (h *Handler) fail(c *web.Context, err error) *web.Context {
	c.Err = err

	key := ServerExceptionController
	if router.IsNotFound(err) {
		key = NotFoundController
		c.Logger.Debug("route not found", "method", c.Request.Method, "path", c.Request.Path)
	} else {
		h.logFailure(c, err)
	}

	if !h.fallback(c, key) {
		h.writeError(c, err)
	}

	out, rerr := h.safely(c, func(in *web.Context) (*web.Context, error) {
		return h.middlewares.Dispatch(middleware.EventResponse, in)
	})
	if rerr != nil && !errors.Is(rerr, middleware.ErrHalt) {
		c.Logger.Warn("response middleware failed on error response", "error", rerr)
	}

	return out
}

// fallback runs the controller registered under key. It reports false when
// none is registered or when it fails, leaving c.Response to be overwritten.
func (h *Handler) fallback(c *web.Context, key string) bool {
	inst, err := c.Scope.Get(key)
	if err != nil {
		c.Logger.Warn("failed to resolve fallback controller", "controller", key, "error", err)
		return false
	}
	ctrl, ok := inst.(Controller)
	if !ok {
		return false
	}

	var resp *web.Response
	_, err = h.safely(c, func(in *web.Context) (*web.Context, error) {
		var aerr error
		resp, aerr = ctrl.Action(in)
		return in, aerr
	})
	if err != nil {
		c.Logger.Warn("fallback controller failed", "controller", key, "error", err)
		return false
	}
	if resp != nil {
		c.Response = resp
	}

	return true
}

func (h *Handler) writeError(c *web.Context, err error) {
	formatted := h.formatter.Format(c.Request.Raw(), err)
	for key, values := range formatted.Headers {
		for _, v := range values {
			c.Response.Header().Add(key, v)
		}
	}

	if _, jerr := c.Response.JSON(formatted.Status, formatted.Body); jerr != nil {
		c.Logger.Error("failed to encode error response", "error", jerr)
		c.Response.Text(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	if formatted.ContentType != "" {
		c.Response.Header().Set("Content-Type", formatted.ContentType)
	}
}

func (h *Handler) logFailure(c *web.Context, err error) {
	attrs := []any{
		"method", c.Request.Method,
		"path", c.Request.Path,
		"error", err,
	}
	if c.Route != nil {
		attrs = append(attrs, "route", c.Route.Name)
	}

	var perr *PanicError
	switch {
	case errors.As(err, &perr):
		c.Logger.Error("panic recovered", append(attrs, "stack", string(perr.Stack))...)
	case apperrors.StatusOf(err) >= http.StatusInternalServerError:
		c.Logger.Error("request failed", attrs...)
	default:
		c.Logger.Debug("request rejected", attrs...)
	}
}

// safely calls fn, turning a panic into a [*PanicError].
func (h *Handler) safely(c *web.Context, fn func(*web.Context) (*web.Context, error)) (out *web.Context, err error) {
	out = c
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()

	next, err := fn(c)
	if next != nil {
		out = next
	}

	return out, err
}
