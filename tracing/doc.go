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

// Package tracing records an OpenTelemetry server span for every request
// handled by the pipeline.
//
// A [Tracer] owns the SDK tracer provider and its exporter: noop (the
// default), stdout, OTLP gRPC or OTLP HTTP. OTLP exporters connect in
// [Tracer.Start]; [Tracer.Shutdown] flushes pending spans.
//
// [Tracer.Entries] returns the middleware entries to register on a
// dispatcher:
//
//	t, err := tracing.New(
//	    tracing.WithServiceName("orders"),
//	    tracing.WithOTLPHTTP("http://localhost:4318"),
//	)
//	if err != nil {
//	    return err
//	}
//	dispatcher.Use(t.Entries(tracing.WithExcludePaths("/livez", "/readyz"))...)
//
// Incoming W3C traceparent and baggage headers continue the caller's trace.
// The span is bound to the request context, so controllers start child
// spans from c.Context(), and the request logger gains trace_id and span_id.
package tracing
