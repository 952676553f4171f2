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

// Package accesslog provides structured HTTP access logging.
//
// [New] returns two entries: a request entry recording the start time and a
// response entry writing one log record per request with method, path,
// status, duration, client IP, user agent, route name and request ID.
//
//	app.Use(accesslog.New(
//	    accesslog.WithExcludePaths("/health"),
//	    accesslog.WithSlowThreshold(500*time.Millisecond),
//	)...)
//
// Server errors are logged at error level, client errors and slow requests
// at warn level, everything else at info level.
package accesslog
