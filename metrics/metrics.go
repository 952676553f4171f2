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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ErrInvalidBuckets is returned when histogram buckets are not increasing.
var ErrInvalidBuckets = errors.New("metrics: buckets must be strictly increasing")

// Recorder collects HTTP request metrics.
type Recorder struct {
	namespace       string
	durationBuckets []float64
	sizeBuckets     []float64
	constLabels     map[string]string
	registry        *prometheus.Registry
	logger          *slog.Logger

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     *prometheus.HistogramVec
	inFlight prometheus.Gauge

	pushers       []pushExporter
	meterProvider *sdkmetric.MeterProvider
	shutdownOnce  sync.Once
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		durationBuckets: prometheus.DefBuckets,
		sizeBuckets:     prometheus.ExponentialBuckets(100, 10, 6),
		logger:          slog.New(slog.DiscardHandler),
	}
}

// New creates a Recorder and registers its collectors.
func New(opts ...Option) (*Recorder, error) {
	r := newDefaultRecorder()
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	labels := prometheus.Labels(r.constLabels)
	r.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests.",
		ConstLabels: labels,
	}, []string{"method", "route", "status"})
	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   r.namespace,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request duration in seconds.",
		Buckets:     r.durationBuckets,
		ConstLabels: labels,
	}, []string{"method", "route", "status_class"})
	r.size = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   r.namespace,
		Name:        "http_response_size_bytes",
		Help:        "HTTP response body size in bytes.",
		Buckets:     r.sizeBuckets,
		ConstLabels: labels,
	}, []string{"method", "route"})
	r.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   r.namespace,
		Name:        "http_requests_in_flight",
		Help:        "Number of HTTP requests being served.",
		ConstLabels: labels,
	})

	for _, c := range []prometheus.Collector{r.requests, r.duration, r.size, r.inFlight} {
		if err := r.registry.Register(c); err != nil {
			r.logger.Error("failed to register collector", "error", err)
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	if err := r.initMeterProvider(); err != nil {
		return nil, err
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return r
}

func (r *Recorder) validate() error {
	for _, buckets := range [][]float64{r.durationBuckets, r.sizeBuckets} {
		if len(buckets) == 0 {
			return ErrInvalidBuckets
		}
		for i := 1; i < len(buckets); i++ {
			if buckets[i] <= buckets[i-1] {
				return ErrInvalidBuckets
			}
		}
	}

	return nil
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// statusClass returns the HTTP status class (2xx, 3xx, 4xx, 5xx).
func statusClass(statusCode int) string {
	switch statusCode / 100 {
	case 1:
		return "1xx"
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}
