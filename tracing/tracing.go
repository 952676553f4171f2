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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ooneex/eagle-sub001/tracing"

// Defaults.
const (
	DefaultServiceName    = "eagle"
	DefaultServiceVersion = "0.0.0"
	DefaultSampleRate     = 1.0
)

// Provider names a span exporter.
type Provider string

// Supported providers.
const (
	// NoopProvider records spans in memory without exporting them.
	NoopProvider Provider = "noop"

	// StdoutProvider pretty-prints spans to stdout.
	StdoutProvider Provider = "stdout"

	// OTLPProvider exports over OTLP gRPC. It is connected by [Tracer.Start].
	OTLPProvider Provider = "otlp"

	// OTLPHTTPProvider exports over OTLP HTTP. It is connected by [Tracer.Start].
	OTLPHTTPProvider Provider = "otlp-http"
)

var (
	// ErrInvalidSampleRate is returned for a sample rate outside [0, 1].
	ErrInvalidSampleRate = errors.New("tracing: sample rate must be between 0 and 1")

	// ErrUnknownProvider is returned for an unsupported provider.
	ErrUnknownProvider = errors.New("tracing: unknown provider")
)

// Tracer creates request spans and owns the SDK tracer provider.
type Tracer struct {
	provider       Provider
	serviceName    string
	serviceVersion string
	endpoint       string
	insecure       bool
	sampleRate     float64
	registerGlobal bool
	logger         *slog.Logger

	custom     bool
	sdk        *sdktrace.TracerProvider
	exporter   sdktrace.SpanExporter
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator

	startOnce    sync.Once
	startErr     error
	shutdownOnce sync.Once
	shutdownErr  error
}

// Option configures a [Tracer].
type Option func(*Tracer)

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) { t.serviceName = name }
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) { t.serviceVersion = version }
}

// WithNoop keeps spans in process. This is the default.
func WithNoop() Option {
	return func(t *Tracer) { t.provider = NoopProvider }
}

// WithStdout exports spans to stdout.
func WithStdout() Option {
	return func(t *Tracer) { t.provider = StdoutProvider }
}

// WithOTLP exports spans over gRPC to endpoint, such as "localhost:4317".
func WithOTLP(endpoint string, insecure bool) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.endpoint = endpoint
		t.insecure = insecure
	}
}

// WithOTLPHTTP exports spans over HTTP to endpoint, such as
// "http://localhost:4318". An http:// scheme disables TLS.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.endpoint = endpoint
	}
}

// WithExporter uses exp instead of a provider exporter. Spans are sent
// synchronously, which suits tests.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(t *Tracer) { t.exporter = exp }
}

// WithTracerProvider uses tp as is. The tracer does not shut it down.
func WithTracerProvider(tp *sdktrace.TracerProvider) Option {
	return func(t *Tracer) {
		t.sdk = tp
		t.custom = true
	}
}

// WithSampleRate samples the given share of root spans. Child spans follow
// their parent.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) { t.sampleRate = rate }
}

// WithGlobalTracerProvider registers the provider and the propagator as
// OpenTelemetry globals.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) { t.registerGlobal = true }
}

// WithLogger sets the logger for provider events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a tracer. Noop and stdout providers are ready immediately;
// OTLP providers export nothing until [Tracer.Start].
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:       NoopProvider,
		serviceName:    DefaultServiceName,
		serviceVersion: DefaultServiceVersion,
		sampleRate:     DefaultSampleRate,
		logger:         slog.New(slog.DiscardHandler),
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sampleRate < 0 || t.sampleRate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, t.sampleRate)
	}

	switch {
	case t.custom:
		t.tracer = t.sdk.Tracer(instrumentationName)
	case t.exporter != nil:
		t.install(sdktrace.WithSyncer(t.exporter))
	default:
		if err := t.initProvider(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// Start connects the OTLP exporters. It does nothing for other providers
// and may be called more than once.
func (t *Tracer) Start(ctx context.Context) error {
	t.startOnce.Do(func() {
		if t.custom || t.exporter != nil {
			return
		}
		switch t.provider {
		case OTLPProvider:
			t.startErr = t.initOTLP(ctx)
		case OTLPHTTPProvider:
			t.startErr = t.initOTLPHTTP(ctx)
		}
	})

	return t.startErr
}

// Shutdown flushes pending spans and stops the exporter. A provider passed
// with [WithTracerProvider] is left running.
func (t *Tracer) Shutdown(ctx context.Context) error {
	t.shutdownOnce.Do(func() {
		if t.custom || t.sdk == nil {
			return
		}
		if err := t.sdk.Shutdown(ctx); err != nil {
			t.shutdownErr = fmt.Errorf("tracing: shutdown: %w", err)
		}
	})

	return t.shutdownErr
}

// Tracer returns the OpenTelemetry tracer used for request spans.
func (t *Tracer) Tracer() trace.Tracer {
	if t.tracer == nil {
		return otel.GetTracerProvider().Tracer(instrumentationName)
	}

	return t.tracer
}

// Provider returns the configured provider.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// Propagator returns the propagator reading and writing trace headers.
func (t *Tracer) Propagator() propagation.TextMapPropagator {
	return t.propagator
}

func (t *Tracer) install(opts ...sdktrace.TracerProviderOption) {
	opts = append(opts,
		sdktrace.WithResource(newResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	)
	t.sdk = sdktrace.NewTracerProvider(opts...)
	t.tracer = t.sdk.Tracer(instrumentationName)

	if t.registerGlobal {
		otel.SetTracerProvider(t.sdk)
		otel.SetTextMapPropagator(t.propagator)
	}
	t.logger.Debug("tracing initialized", "provider", t.provider, "service", t.serviceName)
}
