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

// Package cors provides middleware for Cross-Origin Resource Sharing.
//
// Simple requests get the Access-Control-Allow-* headers on the response.
// Preflight requests (OPTIONS with Access-Control-Request-Method) are
// answered with 204 and the request pipeline halts before routing:
//
//	app.Use(middleware.Entry{
//	    Event:      middleware.EventRequest,
//	    Middleware: cors.New(cors.WithAllowedOrigins("https://example.com")),
//	})
package cors
