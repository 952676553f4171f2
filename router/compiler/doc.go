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

// Package compiler compiles route path templates and indexes them for
// lookup.
//
// A template is split into segments. Literal segments match verbatim and
// segments of the form ":name" capture one or more non-slash characters.
// Patterns are anchored at both ends:
//
//	p := compiler.MustCompile("/users/:id")
//	p.Match("/users/123")       // map[id:123], true
//	p.Match("/users/123/extra") // nil, false
//	p.Match("/users/")          // nil, false
//
// Captured values are returned as raw strings; conversion is left to the
// caller.
//
// # Index
//
// Index stores compiled patterns with a value each and returns every pattern
// matching a path, most specific first:
//
//  1. Fully literal patterns, in insertion order
//  2. Patterns with parameters, by descending number of literal segments,
//     then insertion order
//
// Literal patterns are kept in a map. Once the map grows past a small
// threshold a bloom filter rejects paths that are definitely not literal
// routes before the map is consulted.
package compiler
