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

// Package jwtauth provides bearer-token authentication with JSON Web Tokens.
//
// The middleware reads "Authorization: Bearer <token>", verifies it with
// golang-jwt and stores the [Claims] in the request store. When the matched
// route declares roles, the token must carry at least one of them.
//
// Missing or invalid tokens fail with 401, missing roles with 403. Attach it
// as a route middleware so the matched route is known:
//
//	app.Route(router.Definition{
//	    Controller: "AdminController",
//	    Paths:      []string{"/admin"},
//	    Roles:      []string{"admin"},
//	    Middlewares: []middleware.Entry{
//	        {Event: middleware.EventRequest, Middleware: jwtauth.New(secret)},
//	    },
//	})
package jwtauth
