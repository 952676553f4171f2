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

// Package security provides middleware for setting security-related HTTP
// headers such as Content-Security-Policy and X-Frame-Options.
//
// Attach it to the response event so the headers survive controllers that
// replace the response:
//
//	app.Use(middleware.Entry{
//	    Event:      middleware.EventResponse,
//	    Middleware: security.New(security.WithFrameOptions("SAMEORIGIN")),
//	})
package security
