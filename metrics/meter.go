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

package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterScope = "github.com/ooneex/eagle-sub001/metrics"

// DefaultExportInterval is the push interval used when none is given.
const DefaultExportInterval = 30 * time.Second

// pushExporter builds a reader when the recorder is created.
type pushExporter func() (sdkmetric.Reader, error)

// WithOTLPExport pushes the instruments created through [Recorder.Meter] to
// an OTLP/HTTP collector. An "http://" endpoint disables TLS. A zero
// interval uses [DefaultExportInterval].
func WithOTLPExport(endpoint string, interval time.Duration) Option {
	return func(r *Recorder) {
		r.pushers = append(r.pushers, func() (sdkmetric.Reader, error) {
			var opts []otlpmetrichttp.Option
			if endpoint != "" {
				host, insecure := splitEndpoint(endpoint)
				opts = append(opts, otlpmetrichttp.WithEndpoint(host))
				if insecure {
					opts = append(opts, otlpmetrichttp.WithInsecure())
				}
			}
			exp, err := otlpmetrichttp.New(context.Background(), opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
			}

			return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(exportInterval(interval))), nil
		})
	}
}

// WithStdoutExport periodically prints the instruments created through
// [Recorder.Meter] to stdout.
func WithStdoutExport(interval time.Duration) Option {
	return func(r *Recorder) {
		r.pushers = append(r.pushers, func() (sdkmetric.Reader, error) {
			exp, err := stdoutmetric.New()
			if err != nil {
				return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
			}

			return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(exportInterval(interval))), nil
		})
	}
}

// WithReader adds a caller-owned OpenTelemetry reader.
func WithReader(reader sdkmetric.Reader) Option {
	return func(r *Recorder) {
		r.pushers = append(r.pushers, func() (sdkmetric.Reader, error) { return reader, nil })
	}
}

func exportInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultExportInterval
	}

	return d
}

func splitEndpoint(endpoint string) (host string, insecure bool) {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, insecure = strings.TrimPrefix(endpoint, "http://"), true
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	if i := strings.Index(endpoint, "/"); i != -1 {
		endpoint = endpoint[:i]
	}

	return endpoint, insecure
}

// initMeterProvider exposes OpenTelemetry instruments on the recorder's
// registry next to the HTTP collectors, and attaches the push readers.
func (r *Recorder) initMeterProvider() error {
	promOpts := []otelprom.Option{
		otelprom.WithRegisterer(r.registry),
		otelprom.WithoutTargetInfo(),
	}
	if r.namespace != "" {
		promOpts = append(promOpts, otelprom.WithNamespace(r.namespace))
	}
	exposed, err := otelprom.New(promOpts...)
	if err != nil {
		return fmt.Errorf("metrics: create prometheus bridge: %w", err)
	}

	readers := []sdkmetric.Option{sdkmetric.WithReader(exposed)}
	for _, push := range r.pushers {
		reader, err := push()
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		readers = append(readers, sdkmetric.WithReader(reader))
	}
	r.meterProvider = sdkmetric.NewMeterProvider(readers...)

	return nil
}

// Meter returns an OpenTelemetry meter for application instruments. They
// are served by [Recorder.Handler] and sent to every push exporter.
func (r *Recorder) Meter() metric.Meter {
	return r.meterProvider.Meter(meterScope)
}

// Shutdown flushes the push exporters. The recorder keeps serving the HTTP
// collectors afterwards.
func (r *Recorder) Shutdown(ctx context.Context) error {
	var err error
	r.shutdownOnce.Do(func() {
		if e := r.meterProvider.Shutdown(ctx); e != nil {
			err = fmt.Errorf("metrics: shutdown: %w", e)
		}
	})

	return err
}
