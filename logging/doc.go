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

// Package logging builds the structured loggers used across the framework.
//
// A [Logger] wraps a [slog.Logger] configured with one of three handlers:
// JSON (the default), key=value text, or a colored console handler for
// development. The console handler disables colors when the output is not
// a terminal.
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithServiceName("shop"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	logger.Info("server starting", "addr", ":8080")
//
// Other packages accept the plain *slog.Logger returned by [Logger.Logger].
//
// # Redaction
//
// Attributes named password, token, secret, api_key or authorization are
// replaced with "***REDACTED***" before they reach the handler.
//
// # Trace correlation
//
// [Logger.WithContext] adds the trace_id and span_id of the active
// OpenTelemetry span, if any.
package logging
