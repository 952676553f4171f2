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
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithNamespace prefixes every metric name with ns.
func WithNamespace(ns string) Option {
	return func(r *Recorder) {
		r.namespace = ns
	}
}

// WithDurationBuckets sets the request duration histogram buckets, in seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithSizeBuckets sets the response size histogram buckets, in bytes.
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.sizeBuckets = buckets
	}
}

// WithRegistry uses reg instead of a private registry. Pass
// prometheus.DefaultRegisterer-backed registries to expose the Go collectors.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		r.registry = reg
	}
}

// WithConstLabels adds labels with fixed values to every series.
func WithConstLabels(labels map[string]string) Option {
	return func(r *Recorder) {
		r.constLabels = labels
	}
}

// WithLogger sets the logger used for registration problems.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}
