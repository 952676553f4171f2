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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/ooneex/eagle-sub001/container"
	"github.com/ooneex/eagle-sub001/logging"
	"github.com/ooneex/eagle-sub001/metrics"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/router"
	"github.com/ooneex/eagle-sub001/tracing"
	"github.com/ooneex/eagle-sub001/validation"
)

// App wires the route registry, the dependency container, the middleware
// dispatcher and the request [Handler] behind an HTTP server.
//
//	a := app.MustNew(app.WithServiceName("orders"))
//	a.MustRoute(router.Definition{
//	    Controller: "OrderController",
//	    Paths:      []string{"/orders/:id"},
//	    Methods:    []string{http.MethodGet},
//	}, container.Value(&OrderController{}))
//	if err := a.Start(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
type App struct {
	settings *settings

	registry    *router.Registry
	container   *container.Container
	middlewares *middleware.Dispatcher
	handler     *Handler
	logging     *logging.Logger
	logger      *slog.Logger
	metrics     *metrics.Recorder
	tracer      *tracing.Tracer

	hooks hooks

	routeMu sync.Mutex

	mu      sync.Mutex
	addr    string
	httpMux http.Handler
}

// New creates an App. It returns a [*ValidationError] listing every invalid
// setting.
func New(opts ...Option) (*App, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	logs := s.logger
	if logs == nil {
		var err error
		logs, err = logging.New(append([]logging.Option{
			logging.WithServiceName(s.serviceName),
			logging.WithServiceVersion(s.serviceVersion),
			logging.WithEnvironment(s.environment),
		}, s.loggingOpts...)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	logger := logs.Logger()

	env, err := loadEnv(s.envFile)
	if err != nil {
		return nil, err
	}
	trusted, err := trustedSet(s.trustedProxies)
	if err != nil {
		return nil, err
	}

	c := s.container
	if c == nil {
		c = container.New(container.WithLogger(logger))
	}

	a := &App{
		settings:    s,
		registry:    router.NewRegistry(router.WithLogger(logger)),
		container:   c,
		middlewares: middleware.NewDispatcher(middleware.WithLogger(logger)),
		logging:     logs,
		logger:      logger,
	}

	if s.metrics.enabled {
		rec, err := metrics.New(append(s.metrics.options, metrics.WithLogger(logger))...)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
		}
		entryOpts := append([]metrics.EntryOption{metrics.WithExcludePaths(s.metrics.path)}, s.metrics.entryOpts...)
		if err = a.middlewares.Use(rec.Entries(entryOpts...)...); err != nil {
			return nil, err
		}
		a.metrics = rec
		a.OnShutdown(func(ctx context.Context) {
			if err := rec.Shutdown(ctx); err != nil {
				logger.Warn("failed to flush metrics", "error", err)
			}
		})
	}

	if s.tracing.enabled {
		if err = a.setupTracing(s); err != nil {
			return nil, err
		}
	}

	a.handler = NewHandler(a.registry, a.container,
		WithHandlerLogger(logger),
		WithMiddlewares(a.middlewares),
		WithValidators(validation.NewDispatcher(validation.WithLogger(logger))),
		WithFormatter(s.formatter),
		WithEnvValues(env),
		WithHandlerTrustedProxies(trusted),
		WithHandlerBodyLimit(s.bodyLimit),
	)

	if s.health != nil {
		if err = a.registerHealthEndpoints(s.health); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("app: %v", err))
	}

	return a
}

// Route registers def. When ctor is not nil it is added to the container
// under def.Controller, with def.Lifetime (singleton when empty) and deps as
// its dependency keys. A controller shared by several routes is provided
// once and routed with a nil ctor. Nothing is registered when an error is
// returned.
func (a *App) Route(def router.Definition, ctor container.Constructor, deps ...string) (*router.Definition, error) {
	a.routeMu.Lock()
	defer a.routeMu.Unlock()

	lifetime := def.Lifetime
	if lifetime == "" {
		lifetime = container.Singleton
	}
	key := strings.TrimSpace(def.Controller)
	if ctor != nil && a.container.HasIn(key, lifetime) {
		return nil, &container.DuplicateKeyError{Key: key, Lifetime: lifetime}
	}

	registered, err := a.registry.Register(def)
	if err != nil {
		return nil, err
	}
	if ctor == nil {
		return registered, nil
	}

	if err = a.container.Add(registered.Controller, ctor,
		container.WithLifetime(lifetime),
		container.WithDependencies(deps...),
	); err != nil {
		return nil, err
	}

	return registered, nil
}

// MustRoute is like Route but panics on error.
func (a *App) MustRoute(def router.Definition, ctor container.Constructor, deps ...string) *router.Definition {
	d, err := a.Route(def, ctor, deps...)
	if err != nil {
		panic(fmt.Sprintf("app: %v", err))
	}

	return d
}

// Provide registers a component. Fallback controllers are provided under
// [NotFoundController] and [ServerExceptionController].
func (a *App) Provide(key string, ctor container.Constructor, opts ...container.AddOption) error {
	return a.container.Add(key, ctor, opts...)
}

// Use adds global middleware entries.
func (a *App) Use(entries ...middleware.Entry) error {
	return a.middlewares.Use(entries...)
}

// Handler returns the HTTP handler of the app, with the metrics endpoint
// mounted when metrics are enabled.
func (a *App) Handler() http.Handler {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.httpMux != nil {
		return a.httpMux
	}
	if a.metrics == nil {
		a.httpMux = a.handler
		return a.httpMux
	}

	mux := http.NewServeMux()
	mux.Handle(a.settings.metrics.path, a.metrics.Handler())
	mux.Handle("/", a.handler)
	a.httpMux = mux

	return a.httpMux
}

// setupTracing registers the tracing entries at the outer edge of the global
// chain. The probe and metrics paths are not traced.
func (a *App) setupTracing(s *settings) error {
	t, err := tracing.New(append([]tracing.Option{
		tracing.WithServiceName(s.serviceName),
		tracing.WithServiceVersion(s.serviceVersion),
		tracing.WithLogger(a.logger),
	}, s.tracing.options...)...)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	var skip []string
	if s.metrics.enabled {
		skip = append(skip, s.metrics.path)
	}
	if h := s.health; h != nil {
		skip = append(skip, h.prefix+h.livezPath, h.prefix+h.readyzPath)
	}
	entryOpts := append([]tracing.EntryOption{tracing.WithExcludePaths(skip...)}, s.tracing.entryOpts...)
	if err = a.middlewares.Use(t.Entries(entryOpts...)...); err != nil {
		return err
	}

	a.OnStart(t.Start)
	a.OnShutdown(func(ctx context.Context) {
		if err := t.Shutdown(ctx); err != nil {
			a.logger.Warn("failed to flush traces", "error", err)
		}
	})
	a.tracer = t

	return nil
}

// Registry returns the route registry.
func (a *App) Registry() *router.Registry {
	return a.registry
}

// Container returns the dependency container.
func (a *App) Container() *container.Container {
	return a.container
}

// Metrics returns the metrics recorder, or nil when metrics are disabled.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// Tracer returns the request tracer, or nil when tracing is disabled.
func (a *App) Tracer() *tracing.Tracer {
	return a.tracer
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Environment returns the configured environment.
func (a *App) Environment() string {
	return a.settings.environment
}

// Addr returns the address the server listens on, empty before [App.Start]
// bound it.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.addr
}
