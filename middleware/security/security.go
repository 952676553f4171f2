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

package security

import (
	"fmt"

	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/web"
)

// Option defines functional options for security middleware configuration.
type Option func(*config)

// config holds the configuration for the security middleware.
type config struct {
	frameOptions       string
	contentTypeNosniff bool
	xssProtection      string

	hstsMaxAge            int
	hstsIncludeSubdomains bool
	hstsPreload           bool

	contentSecurityPolicy string
	referrerPolicy        string
	permissionsPolicy     string
	customHeaders         map[string]string
}

// defaultConfig returns secure default configuration.
func defaultConfig() *config {
	return &config{
		frameOptions:          "DENY",
		contentTypeNosniff:    true,
		xssProtection:         "1; mode=block",
		hstsMaxAge:            31536000, // 1 year
		hstsIncludeSubdomains: true,
		contentSecurityPolicy: "default-src 'self'",
		referrerPolicy:        "strict-origin-when-cross-origin",
		customHeaders:         make(map[string]string),
	}
}

// WithFrameOptions sets the X-Frame-Options header. Default: "DENY".
func WithFrameOptions(value string) Option {
	return func(cfg *config) {
		cfg.frameOptions = value
	}
}

// WithContentTypeNosniff enables or disables X-Content-Type-Options: nosniff.
func WithContentTypeNosniff(enabled bool) Option {
	return func(cfg *config) {
		cfg.contentTypeNosniff = enabled
	}
}

// WithXSSProtection sets the X-XSS-Protection header.
func WithXSSProtection(value string) Option {
	return func(cfg *config) {
		cfg.xssProtection = value
	}
}

// WithHSTS configures Strict-Transport-Security. A maxAge of 0 disables it.
// The header is only sent on secure requests.
func WithHSTS(maxAge int, includeSubdomains, preload bool) Option {
	return func(cfg *config) {
		cfg.hstsMaxAge = maxAge
		cfg.hstsIncludeSubdomains = includeSubdomains
		cfg.hstsPreload = preload
	}
}

// WithContentSecurityPolicy sets the Content-Security-Policy header.
func WithContentSecurityPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.contentSecurityPolicy = policy
	}
}

// WithReferrerPolicy sets the Referrer-Policy header.
func WithReferrerPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.referrerPolicy = policy
	}
}

// WithPermissionsPolicy sets the Permissions-Policy header.
func WithPermissionsPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.permissionsPolicy = policy
	}
}

// WithCustomHeader adds a custom header.
func WithCustomHeader(name, value string) Option {
	return func(cfg *config) {
		cfg.customHeaders[name] = value
	}
}

// New returns a middleware that sets security headers on the response.
func New(opts ...Option) middleware.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var hstsHeader string
	if cfg.hstsMaxAge > 0 {
		hstsHeader = fmt.Sprintf("max-age=%d", cfg.hstsMaxAge)
		if cfg.hstsIncludeSubdomains {
			hstsHeader += "; includeSubDomains"
		}
		if cfg.hstsPreload {
			hstsHeader += "; preload"
		}
	}

	headers := []struct{ name, value string }{
		{"X-Frame-Options", cfg.frameOptions},
		{"X-XSS-Protection", cfg.xssProtection},
		{"Content-Security-Policy", cfg.contentSecurityPolicy},
		{"Referrer-Policy", cfg.referrerPolicy},
		{"Permissions-Policy", cfg.permissionsPolicy},
	}
	if cfg.contentTypeNosniff {
		headers = append(headers, struct{ name, value string }{"X-Content-Type-Options", "nosniff"})
	}
	for name, value := range cfg.customHeaders {
		headers = append(headers, struct{ name, value string }{name, value})
	}

	return middleware.Func(func(c *web.Context) (*web.Context, error) {
		h := c.Response.Header()
		for _, kv := range headers {
			if kv.value != "" {
				h.Set(kv.name, kv.value)
			}
		}
		if hstsHeader != "" && c.Request.IsSecure() {
			h.Set("Strict-Transport-Security", hstsHeader)
		}

		return c, nil
	})
}
