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

// Package cookie implements the Set-Cookie wire format used by responses.
//
// Cookie.String serializes attributes in a fixed order (value, Secure,
// HttpOnly, Partitioned, Max-Age, Domain, SameSite, Path, Expires, then any
// unparsed extras) and ParseSetCookie reads the same format back:
//
//	c := &cookie.Cookie{Name: "session", Value: "abc", Secure: true, Path: "/"}
//	header := c.String() // session=abc; Secure; Path=/
//	parsed, err := cookie.ParseSetCookie(header)
//
// Names starting with "__Secure-" require Secure. Names starting with
// "__Host-" additionally require an empty Domain and Path "/". Validate
// reports violations; callers decide whether to drop the cookie.
package cookie
