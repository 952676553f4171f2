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

// Package compression provides a response middleware that compresses the
// buffered body with Brotli or gzip.
//
// The encoding is negotiated from the request's Accept-Encoding header,
// honoring q-values. Bodies below the configured minimum size, responses
// that already carry a Content-Encoding, and streamed content types are
// sent as is.
//
//	app.Use(compression.Entry(
//	    compression.WithMinSize(1024),
//	    compression.WithExcludeExtensions(".png", ".zip"),
//	))
package compression
