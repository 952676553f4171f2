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

package validation

// Scope names the request segment a validator applies to.
type Scope string

// Supported scopes.
const (
	ScopePayload Scope = "payload"
	ScopeParams  Scope = "params"
	ScopeQueries Scope = "queries"
	ScopeCookies Scope = "cookies"
	ScopeFiles   Scope = "files"
	ScopeForm    Scope = "form"
	ScopeEnv     Scope = "env"
)

// Scopes returns the supported scopes in the order the request handler
// validates them.
func Scopes() []Scope {
	return []Scope{ScopeParams, ScopeQueries, ScopePayload, ScopeCookies, ScopeFiles, ScopeForm, ScopeEnv}
}

// Valid reports whether s is a supported scope.
func (s Scope) Valid() bool {
	switch s {
	case ScopePayload, ScopeParams, ScopeQueries, ScopeCookies, ScopeFiles, ScopeForm, ScopeEnv:
		return true
	default:
		return false
	}
}

func (s Scope) String() string {
	return string(s)
}
