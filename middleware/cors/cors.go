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

package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/web"
)

// New returns a request middleware handling CORS headers and preflights.
func New(opts ...Option) middleware.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	methods := strings.Join(cfg.allowedMethods, ", ")
	headers := strings.Join(cfg.allowedHeaders, ", ")
	exposed := strings.Join(cfg.exposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.maxAge)

	return middleware.Func(func(c *web.Context) (*web.Context, error) {
		origin := c.Request.Header("Origin")
		if origin == "" {
			return c, nil
		}

		h := c.Response.Header()
		h.Add("Vary", "Origin")

		allowed := cfg.allowOrigin(origin)
		if !allowed {
			return c, nil
		}

		if cfg.allowAllOrigins && !cfg.allowCredentials {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
		}
		if cfg.allowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		preflight := c.Request.Method == http.MethodOptions &&
			c.Request.Header("Access-Control-Request-Method") != ""
		if !preflight {
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}
			return c, nil
		}

		h.Set("Access-Control-Allow-Methods", methods)
		if headers != "" {
			h.Set("Access-Control-Allow-Headers", headers)
		}
		if cfg.maxAge > 0 {
			h.Set("Access-Control-Max-Age", maxAge)
		}
		c.Response.NoContent()

		return middleware.Halt(c)
	})
}

func (cfg *config) allowOrigin(origin string) bool {
	if cfg.allowOriginFunc != nil {
		return cfg.allowOriginFunc(origin)
	}
	if cfg.allowAllOrigins {
		return true
	}

	return slices.Contains(cfg.allowedOrigins, origin)
}
