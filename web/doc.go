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

// Package web provides the per-request types threaded through the dispatch
// pipeline: [Context], [Request], [Response] and [Store].
//
// A Context is created for every inbound request and discarded once the
// response has been written. Middlewares, validators and controllers receive
// the same Context and may read the request, replace or modify the response
// and exchange values through the Store:
//
//	func (m *Auth) Next(c *web.Context) (*web.Context, error) {
//	    user, err := m.lookup(c.Request.Header("Authorization"))
//	    if err != nil {
//	        return nil, err
//	    }
//	    c.Store.Set("user", user)
//	    return c, nil
//	}
//
// Controllers usually answer through the response helpers:
//
//	func (ctl *ShowUser) Action(c *web.Context) (*web.Response, error) {
//	    return c.Response.JSON(http.StatusOK, user)
//	}
package web
