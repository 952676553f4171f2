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
	"io"
	"os"
	"time"

	"github.com/ooneex/eagle-sub001/container"
	apperrors "github.com/ooneex/eagle-sub001/errors"
	"github.com/ooneex/eagle-sub001/logging"
	"github.com/ooneex/eagle-sub001/metrics"
	"github.com/ooneex/eagle-sub001/tracing"
)

// Environment names.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

const (
	defaultServiceName    = "eagle"
	defaultServiceVersion = "0.0.0"
	defaultAddr           = ":8080"
	defaultMetricsPath    = "/metrics"
)

// Option configures an [App].
type Option func(*settings)

// ServerOption configures the HTTP server started by [App.Start].
type ServerOption func(*serverSettings)

type serverSettings struct {
	addr              string
	readTimeout       time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	maxHeaderBytes    int
}

type metricsSettings struct {
	enabled   bool
	path      string
	options   []metrics.Option
	entryOpts []metrics.EntryOption
}

type tracingSettings struct {
	enabled   bool
	options   []tracing.Option
	entryOpts []tracing.EntryOption
}

type settings struct {
	serviceName    string
	serviceVersion string
	environment    string

	server  serverSettings
	metrics metricsSettings
	tracing tracingSettings
	health  *healthSettings

	logger      *logging.Logger
	loggingOpts []logging.Option
	formatter   apperrors.Formatter
	container   *container.Container

	envFile        string
	trustedProxies []string
	bodyLimit      int64

	bannerOutput io.Writer
}

func defaultSettings() *settings {
	return &settings{
		serviceName:    defaultServiceName,
		serviceVersion: defaultServiceVersion,
		environment:    EnvironmentDevelopment,
		server: serverSettings{
			addr:              defaultAddr,
			readTimeout:       10 * time.Second,
			readHeaderTimeout: 2 * time.Second,
			writeTimeout:      10 * time.Second,
			idleTimeout:       60 * time.Second,
			shutdownTimeout:   30 * time.Second,
			maxHeaderBytes:    1 << 20,
		},
		metrics:      metricsSettings{path: defaultMetricsPath},
		bodyLimit:    defaultMaxBodyBytes,
		bannerOutput: os.Stdout,
	}
}

// validate reports every invalid setting at once.
func (s *settings) validate() error {
	ve := &ValidationError{}

	if s.serviceName == "" {
		ve.Add(newEmptyFieldError("serviceName"))
	}
	if s.serviceVersion == "" {
		ve.Add(newEmptyFieldError("serviceVersion"))
	}
	if s.environment != EnvironmentDevelopment && s.environment != EnvironmentProduction {
		ve.Add(newInvalidEnumError("environment", s.environment, []string{EnvironmentDevelopment, EnvironmentProduction}))
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.readTimeout", s.server.readTimeout},
		{"server.readHeaderTimeout", s.server.readHeaderTimeout},
		{"server.writeTimeout", s.server.writeTimeout},
		{"server.idleTimeout", s.server.idleTimeout},
		{"server.shutdownTimeout", s.server.shutdownTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			ve.Add(newPositiveError(t.field, t.value))
		}
	}
	if s.server.maxHeaderBytes <= 0 {
		ve.Add(newPositiveError("server.maxHeaderBytes", s.server.maxHeaderBytes))
	}
	if s.bodyLimit <= 0 {
		ve.Add(newPositiveError("bodyLimit", s.bodyLimit))
	}
	if s.metrics.enabled && (s.metrics.path == "" || s.metrics.path[0] != '/') {
		ve.Add(newInvalidValueError("metrics.path", s.metrics.path, "must start with /"))
	}

	return ve.ToError()
}

// WithServiceName sets the service name shown in the banner and logs.
func WithServiceName(name string) Option {
	return func(s *settings) { s.serviceName = name }
}

// WithServiceVersion sets the service version.
func WithServiceVersion(version string) Option {
	return func(s *settings) { s.serviceVersion = version }
}

// WithEnvironment sets the environment, development or production.
// Production disables colours and the route table in the banner.
func WithEnvironment(env string) Option {
	return func(s *settings) { s.environment = env }
}

// WithLogger sets the application logger. It takes precedence over
// [WithLogging].
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithLogging configures the logger built by [New]. Service name, version
// and environment are added automatically.
func WithLogging(opts ...logging.Option) Option {
	return func(s *settings) { s.loggingOpts = append(s.loggingOpts, opts...) }
}

// WithErrorFormatter sets the formatter of generic error responses.
func WithErrorFormatter(f apperrors.Formatter) Option {
	return func(s *settings) { s.formatter = f }
}

// WithContainer uses c instead of a new container.
func WithContainer(c *container.Container) Option {
	return func(s *settings) { s.container = c }
}

// WithEnvFile reads a dotenv file whose values complete the process
// environment in the env validation scope.
func WithEnvFile(path string) Option {
	return func(s *settings) { s.envFile = path }
}

// WithTrustedProxies trusts X-Forwarded-For and X-Real-IP from peers in the
// given CIDR prefixes or addresses.
func WithTrustedProxies(prefixes ...string) Option {
	return func(s *settings) { s.trustedProxies = append(s.trustedProxies, prefixes...) }
}

// WithBodyLimit bounds the request body bytes parsed before routing.
func WithBodyLimit(n int64) Option {
	return func(s *settings) { s.bodyLimit = n }
}

// WithMetrics records Prometheus metrics for every request and serves them
// on [WithMetricsPath] (default /metrics).
func WithMetrics(opts ...metrics.Option) Option {
	return func(s *settings) {
		s.metrics.enabled = true
		s.metrics.options = append(s.metrics.options, opts...)
	}
}

// WithMetricsPath sets the path serving the metrics registry.
func WithMetricsPath(path string) Option {
	return func(s *settings) { s.metrics.path = path }
}

// WithMetricsFilter excludes requests from the recorded metrics.
func WithMetricsFilter(opts ...metrics.EntryOption) Option {
	return func(s *settings) { s.metrics.entryOpts = append(s.metrics.entryOpts, opts...) }
}

// WithTracing records an OpenTelemetry span per request. Service name and
// version are added automatically. OTLP exporters connect when the app
// starts and are flushed on shutdown.
func WithTracing(opts ...tracing.Option) Option {
	return func(s *settings) {
		s.tracing.enabled = true
		s.tracing.options = append(s.tracing.options, opts...)
	}
}

// WithTracingFilter configures the traced requests.
func WithTracingFilter(opts ...tracing.EntryOption) Option {
	return func(s *settings) { s.tracing.entryOpts = append(s.tracing.entryOpts, opts...) }
}

// WithBannerOutput sets where the startup banner is printed. Nil disables
// the banner.
func WithBannerOutput(w io.Writer) Option {
	return func(s *settings) { s.bannerOutput = w }
}

// WithServerConfig configures the HTTP server.
//
//	app.WithServerConfig(
//	    app.WithReadTimeout(15*time.Second),
//	    app.WithShutdownTimeout(10*time.Second),
//	)
func WithServerConfig(opts ...ServerOption) Option {
	return func(s *settings) {
		for _, opt := range opts {
			opt(&s.server)
		}
	}
}

// WithAddr sets the default listen address of [App.Start].
func WithAddr(addr string) ServerOption {
	return func(s *serverSettings) { s.addr = addr }
}

func WithReadTimeout(d time.Duration) ServerOption {
	return func(s *serverSettings) { s.readTimeout = d }
}

func WithReadHeaderTimeout(d time.Duration) ServerOption {
	return func(s *serverSettings) { s.readHeaderTimeout = d }
}

func WithWriteTimeout(d time.Duration) ServerOption {
	return func(s *serverSettings) { s.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) ServerOption {
	return func(s *serverSettings) { s.idleTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown, hooks included.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *serverSettings) { s.shutdownTimeout = d }
}

func WithMaxHeaderBytes(n int) ServerOption {
	return func(s *serverSettings) { s.maxHeaderBytes = n }
}
