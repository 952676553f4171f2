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

// Package status exposes the standard HTTP status codes as named constants
// together with predicates that classify a code by its class.
//
// The constants share their values with net/http, so they can be passed to
// any http.ResponseWriter directly:
//
//	w.WriteHeader(status.NotFound)
//	if status.IsServerError(code) {
//	    // retry
//	}
package status
