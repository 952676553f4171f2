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

package web

import (
	"context"
	"maps"
	"mime/multipart"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"go4.org/netipx"
)

// Request is the framework view of an inbound HTTP request.
type Request struct {
	raw *http.Request

	// Method is the upper-case HTTP method.
	Method string

	// Path is the normalized request path (leading slash, no trailing slash
	// except for the root).
	Path string

	// Host is the request host without port, lower-cased.
	Host string

	// IP is the client address.
	IP string

	// Params holds the path parameters captured by the matched route.
	Params map[string]string

	// Payload holds the decoded body for JSON, MessagePack and YAML requests.
	Payload any

	// Body holds the raw body when it was read during content sniffing.
	Body []byte

	// Form holds urlencoded and multipart form values.
	Form url.Values

	// Files holds multipart file headers by field name.
	Files map[string][]*multipart.FileHeader
}

// RequestOption configures a [Request].
type RequestOption func(*requestConfig)

type requestConfig struct {
	trusted *netipx.IPSet
}

// WithTrustedProxies trusts X-Forwarded-For and X-Real-IP when the peer
// address is inside set.
func WithTrustedProxies(set *netipx.IPSet) RequestOption {
	return func(cfg *requestConfig) {
		cfg.trusted = set
	}
}

// NewRequest wraps r.
func NewRequest(r *http.Request, opts ...RequestOption) *Request {
	var cfg requestConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Request{
		raw:    r,
		Method: strings.ToUpper(r.Method),
		Path:   NormalizePath(r.URL.Path),
		Host:   hostWithoutPort(r.Host),
		IP:     clientIP(r, cfg.trusted),
		Params: make(map[string]string),
		Form:   make(url.Values),
		Files:  make(map[string][]*multipart.FileHeader),
	}
}

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request {
	return r.raw
}

// Context returns the request context.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// SetContext replaces the context of the underlying request, for
// middlewares attaching spans or deadlines.
func (r *Request) SetContext(ctx context.Context) {
	r.raw = r.raw.WithContext(ctx)
}

// Param returns the path parameter key, or "".
func (r *Request) Param(key string) string {
	return r.Params[key]
}

// Query returns the first value of the query parameter key.
func (r *Request) Query(key string) string {
	return r.raw.URL.Query().Get(key)
}

// Queries returns the query parameters, keeping the first value of each key.
func (r *Request) Queries() map[string]string {
	return firstValues(r.raw.URL.Query())
}

// Header returns the first value of the request header key.
func (r *Request) Header(key string) string {
	return r.raw.Header.Get(key)
}

// ContentType returns the media type of the request without parameters.
func (r *Request) ContentType() string {
	ct := r.raw.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}

	return strings.ToLower(strings.TrimSpace(ct))
}

// Cookie returns the value of the request cookie name, or "".
func (r *Request) Cookie(name string) string {
	c, err := r.raw.Cookie(name)
	if err != nil {
		return ""
	}

	return c.Value
}

// Cookies returns the request cookies by name. The first cookie wins on
// duplicate names.
func (r *Request) Cookies() map[string]string {
	out := make(map[string]string)
	for _, c := range r.raw.Cookies() {
		if _, seen := out[c.Name]; !seen {
			out[c.Name] = c.Value
		}
	}

	return out
}

// FormValues returns the form fields, keeping the first value of each key.
func (r *Request) FormValues() map[string]string {
	return firstValues(r.Form)
}

// AllParams returns a copy of the path parameters.
func (r *Request) AllParams() map[string]string {
	return maps.Clone(r.Params)
}

// IsJSON reports whether the request body is JSON.
func (r *Request) IsJSON() bool {
	return r.ContentType() == "application/json"
}

// IsSecure reports whether the request arrived over TLS or through a proxy
// that terminated TLS.
func (r *Request) IsSecure() bool {
	return r.raw.TLS != nil || strings.EqualFold(r.raw.Header.Get("X-Forwarded-Proto"), "https")
}

// NormalizePath adds a leading slash and removes trailing slashes, keeping
// the root path "/".
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	for len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}

	return p
}

func firstValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}

	return out
}

func hostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return strings.ToLower(strings.Trim(host, "[]"))
}

// clientIP returns the peer address, or the forwarded client address when
// the peer is a trusted proxy.
func clientIP(r *http.Request, trusted *netipx.IPSet) string {
	remote := r.RemoteAddr
	if h, _, err := net.SplitHostPort(remote); err == nil {
		remote = h
	}
	if trusted == nil {
		return remote
	}

	peer, err := netip.ParseAddr(remote)
	if err != nil || !trusted.Contains(peer.Unmap()) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if addr, err := netip.ParseAddr(realIP); err == nil {
			return addr.String()
		}
	}

	return remote
}
