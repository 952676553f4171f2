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

// Package requestid provides middleware that assigns a unique ID to every
// request.
//
// The ID is taken from the request header when clients may supply one, or
// generated otherwise. It is written to the response header, stored in the
// request store under [StoreKey] and added to the request logger.
//
// UUID v7 is used by default; ULIDs are available with [WithULID]:
//
//	app.Use(middleware.Entry{
//	    Event:      middleware.EventRequest,
//	    Priority:   -100,
//	    Middleware: requestid.New(requestid.WithULID()),
//	})
package requestid
