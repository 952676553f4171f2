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
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func (t *Tracer) initProvider() error {
	switch t.provider {
	case NoopProvider:
		t.install()
	case StdoutProvider:
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		t.install(sdktrace.WithBatcher(exporter))
	case OTLPProvider, OTLPHTTPProvider:
		// Connected by Start; spans are dropped until then.
		t.install()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, t.provider)
	}

	return nil
}

func (t *Tracer) initOTLP(ctx context.Context) error {
	var opts []otlptracegrpc.Option
	if t.endpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.endpoint))
	}
	if t.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
	}
	t.sdk.RegisterSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter))
	t.logger.Info("tracing exporter started", "provider", t.provider, "endpoint", t.endpoint)

	return nil
}

func (t *Tracer) initOTLPHTTP(ctx context.Context) error {
	var opts []otlptracehttp.Option
	if t.endpoint != "" {
		endpoint, insecure := splitEndpoint(t.endpoint)
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}
	t.sdk.RegisterSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter))
	t.logger.Info("tracing exporter started", "provider", t.provider, "endpoint", t.endpoint)

	return nil
}

// splitEndpoint strips the scheme and path of an OTLP HTTP endpoint and
// reports whether it was plain http.
func splitEndpoint(endpoint string) (string, bool) {
	insecure := false
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, insecure = rest, true
	} else {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	if i := strings.IndexByte(endpoint, '/'); i >= 0 {
		endpoint = endpoint[:i]
	}

	return endpoint, insecure
}

func newResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}
