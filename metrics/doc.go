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

// Package metrics records HTTP request metrics with the Prometheus client.
//
// A [Recorder] owns its own registry, so several recorders can coexist in
// one process. [Recorder.Entries] returns the middleware entries that feed it
// and [Recorder.Handler] serves the registry in the Prometheus text format.
//
//	recorder := metrics.MustNew(metrics.WithNamespace("shop"))
//	app.Use(recorder.Entries(metrics.WithExcludePaths("/health"))...)
//	http.Handle("/metrics", recorder.Handler())
//
// Collected series:
//   - http_requests_total{method,route,status}: counter
//   - http_request_duration_seconds{method,route,status_class}: histogram
//   - http_response_size_bytes{method,route}: histogram
//   - http_requests_in_flight: gauge
//
// The route label is the route name, or "unmatched" before resolution, so
// label cardinality stays bounded by the route table.
//
// # Application instruments
//
// [Recorder.Meter] returns an OpenTelemetry meter. Its instruments appear on
// the same registry and are pushed to any exporter added with
// [WithOTLPExport], [WithStdoutExport] or [WithReader]. Call
// [Recorder.Shutdown] to flush them.
package metrics
