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

// Package errors provides the exception hierarchy raised by the framework and
// the formatters that turn any error into an HTTP error response.
//
// Exception is the base type for framework-raised errors. It carries a
// message, an optional HTTP status, optional structured data and the stack
// frames captured where it was created:
//
//	err := errors.New("user not found",
//	    errors.Status(http.StatusNotFound),
//	    errors.WithData(map[string]any{"id": id}),
//	)
//
// Errors that are not Exceptions can still control their response by
// implementing the optional interfaces:
//
//   - ErrorType: declare an HTTP status code
//   - ErrorDetails: expose structured details
//   - ErrorCode: expose a machine-readable code
//
// The Envelope formatter renders every error the same way clients see it:
//
//	{"message": "...", "data": {...}, "state": {"success": false, "status": 404}}
//
// Example:
//
//	formatter := errors.NewEnvelope()
//	response := formatter.Format(req, err)
//	w.Header().Set("Content-Type", response.ContentType)
//	w.WriteHeader(response.Status)
//	json.NewEncoder(w).Encode(response.Body)
package errors
