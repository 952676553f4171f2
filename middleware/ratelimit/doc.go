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

// Package ratelimit provides per-client request rate limiting using a token
// bucket from golang.org/x/time/rate.
//
// Each client key (the client IP by default) gets its own bucket. Requests
// over the limit fail with a 429 exception carrying a Retry-After header,
// which the request handler turns into the error response.
//
//	app.Use(middleware.Entry{
//	    Event:      middleware.EventRequest,
//	    Middleware: ratelimit.New(ratelimit.WithRequestsPerSecond(10), ratelimit.WithBurst(20)),
//	})
package ratelimit
