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

// Package validation runs the validators attached to a route against one
// segment of the request at a time.
//
// Every validator declares the data [Scope] it applies to: payload, params,
// queries, cookies, files, form or env. During dispatch only the validators
// whose scope equals the scope of the data are invoked; the others are never
// called. Validators that declare an empty or unsupported scope are
// registered but never dispatched.
//
// When at least one validator reports failure, [Dispatch] returns a
// [*FailedError] carrying the details of every failing validator, in order,
// and the name of the controller that owns the route. FailedError maps to
// HTTP 400.
//
// # Bundled validators
//
//   - [StructValidator]: decodes the data into a struct and checks its
//     go-playground/validator "validate" tags
//   - [SchemaValidator]: checks the data against a JSON Schema
//   - [Func]: adapts a plain function
//
// Example:
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	entries := []validation.Entry{
//	    {Validator: validation.NewStructValidator[CreateUser](validation.ScopePayload)},
//	}
package validation
