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
	"net/http"
	"time"

	"github.com/ooneex/eagle-sub001/container"
	"github.com/ooneex/eagle-sub001/router"
	"github.com/ooneex/eagle-sub001/web"
)

// Container keys of the builtin probe controllers.
const (
	LivenessController  = "LivenessController"
	ReadinessController = "ReadinessController"
)

// HealthOption configures the probe endpoints enabled by [WithHealthEndpoints].
type HealthOption func(*healthSettings)

// CheckFunc reports the health of one dependency. It must honour ctx.
type CheckFunc func(ctx context.Context) error

type healthSettings struct {
	prefix     string
	livezPath  string
	readyzPath string

	liveness  map[string]CheckFunc
	readiness map[string]CheckFunc
	timeout   time.Duration
}

func defaultHealthSettings() *healthSettings {
	return &healthSettings{
		livezPath:  "/livez",
		readyzPath: "/readyz",
		timeout:    time.Second,
		liveness:   make(map[string]CheckFunc),
		readiness:  make(map[string]CheckFunc),
	}
}

// WithHealthEndpoints registers GET liveness and readiness probes. Liveness
// answers 200 "ok", readiness 204, and either answers 503 with the failed
// checks.
//
//	app.WithHealthEndpoints(
//	    app.WithReadinessCheck("db", db.PingContext),
//	)
func WithHealthEndpoints(opts ...HealthOption) Option {
	return func(s *settings) {
		if s.health == nil {
			s.health = defaultHealthSettings()
		}
		for _, opt := range opts {
			opt(s.health)
		}
	}
}

// WithHealthPrefix mounts the probes under prefix, such as "/_system".
func WithHealthPrefix(prefix string) HealthOption {
	return func(s *healthSettings) { s.prefix = prefix }
}

// WithLivezPath sets the liveness path (default /livez).
func WithLivezPath(path string) HealthOption {
	return func(s *healthSettings) { s.livezPath = path }
}

// WithReadyzPath sets the readiness path (default /readyz).
func WithReadyzPath(path string) HealthOption {
	return func(s *healthSettings) { s.readyzPath = path }
}

// WithHealthTimeout bounds each check.
func WithHealthTimeout(d time.Duration) HealthOption {
	return func(s *healthSettings) { s.timeout = d }
}

// WithLivenessCheck adds a process-level check. Keep it free of external
// dependencies.
func WithLivenessCheck(name string, check CheckFunc) HealthOption {
	return func(s *healthSettings) { s.liveness[name] = check }
}

// WithReadinessCheck adds a dependency check, such as a database ping.
func WithReadinessCheck(name string, check CheckFunc) HealthOption {
	return func(s *healthSettings) { s.readiness[name] = check }
}

func (a *App) registerHealthEndpoints(s *healthSettings) error {
	timeout := s.timeout
	if timeout <= 0 {
		timeout = time.Second
	}

	livez := ControllerFunc(func(c *web.Context) (*web.Response, error) {
		c.Response.Header().Set("Cache-Control", "no-store")
		if failures := runChecks(c.Context(), s.liveness, timeout); len(failures) > 0 {
			return c.Response.Envelope(http.StatusServiceUnavailable, "Service Not Healthy", failures)
		}

		return c.Response.Text(http.StatusOK, "ok"), nil
	})
	readyz := ControllerFunc(func(c *web.Context) (*web.Response, error) {
		c.Response.Header().Set("Cache-Control", "no-store")
		if failures := runChecks(c.Context(), s.readiness, timeout); len(failures) > 0 {
			return c.Response.Envelope(http.StatusServiceUnavailable, "Service Not Ready", failures)
		}

		return c.Response.NoContent(), nil
	})

	probes := []struct {
		name, key, path string
		ctrl            Controller
	}{
		{"health.livez", LivenessController, s.prefix + s.livezPath, livez},
		{"health.readyz", ReadinessController, s.prefix + s.readyzPath, readyz},
	}
	for _, p := range probes {
		if _, err := a.Route(router.Definition{
			Name:        p.name,
			Controller:  p.key,
			Paths:       []string{p.path},
			Methods:     []string{http.MethodGet, http.MethodHead},
			Description: "builtin probe",
		}, container.Value(p.ctrl)); err != nil {
			return err
		}
	}

	return nil
}

// runChecks runs checks concurrently, each under its own timeout, and returns
// the error message of every failed check by name.
func runChecks(ctx context.Context, checks map[string]CheckFunc, timeout time.Duration) map[string]string {
	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(checks))
	for name, fn := range checks {
		go func() {
			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			results <- result{name, fn(checkCtx)}
		}()
	}

	failures := make(map[string]string)
	for range len(checks) {
		if r := <-results; r.err != nil {
			failures[r.name] = r.err.Error()
		}
	}

	return failures
}
