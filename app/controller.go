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

package app

import "github.com/ooneex/eagle-sub001/web"

// Container keys of the fallback controllers. When registered, they receive
// the request whose handling failed, with the error in [web.Context.Err].
const (
	NotFoundController        = "NotFoundController"
	ServerExceptionController = "ServerExceptionController"
)

// Controller handles a resolved request.
//
// Action returns the response to send. A nil response sends the context's
// response, so controllers may write into c.Response directly.
type Controller interface {
	Action(c *web.Context) (*web.Response, error)
}

// ControllerFunc adapts a function to [Controller].
type ControllerFunc func(c *web.Context) (*web.Response, error)

// Action calls f.
func (f ControllerFunc) Action(c *web.Context) (*web.Response, error) {
	return f(c)
}
