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

package accesslog

import (
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/middleware/requestid"
	"github.com/ooneex/eagle-sub001/web"
)

// startKey is the store key holding the request start time.
const startKey = "accesslog.start"

// Option defines functional options for accesslog middleware configuration.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	excludePaths    []string
	excludePrefixes []string
	slowThreshold   time.Duration
	errorsOnly      bool
	priority        int
	now             func() time.Time
}

func defaultConfig() *config {
	return &config{
		priority: math.MaxInt32,
		now:      time.Now,
	}
}

// WithLogger sets the logger. By default the request logger of the context
// is used, which already carries the request ID when requestid runs first.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithExcludePaths skips logging for the exact paths given.
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		cfg.excludePaths = append(cfg.excludePaths, paths...)
	}
}

// WithExcludePrefixes skips logging for paths starting with any prefix.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.excludePrefixes = append(cfg.excludePrefixes, prefixes...)
	}
}

// WithSlowThreshold marks requests slower than d and logs them at warn level.
func WithSlowThreshold(d time.Duration) Option {
	return func(cfg *config) {
		cfg.slowThreshold = d
	}
}

// WithErrorsOnly only logs responses with status >= 400.
func WithErrorsOnly() Option {
	return func(cfg *config) {
		cfg.errorsOnly = true
	}
}

// WithPriority sets the priority of the response entry.
// Default: math.MaxInt32, so logging runs after every other response middleware.
func WithPriority(p int) Option {
	return func(cfg *config) {
		cfg.priority = p
	}
}

// New returns the request and response entries of the access logger.
func New(opts ...Option) []middleware.Entry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	start := middleware.Func(func(c *web.Context) (*web.Context, error) {
		c.Store.Set(startKey, cfg.now())
		return c, nil
	})

	return []middleware.Entry{
		{Event: middleware.EventRequest, Priority: math.MinInt32, Middleware: start},
		{Event: middleware.EventResponse, Priority: cfg.priority, Middleware: middleware.Func(cfg.log)},
	}
}

func (cfg *config) log(c *web.Context) (*web.Context, error) {
	path := c.Request.Path
	if cfg.excluded(path) {
		return c, nil
	}

	status := c.Response.Status()
	if cfg.errorsOnly && status < 400 {
		return c, nil
	}

	var duration time.Duration
	if started, ok := web.StoreValue[time.Time](c.Store, startKey); ok {
		duration = cfg.now().Sub(started)
	}
	slow := cfg.slowThreshold > 0 && duration > cfg.slowThreshold

	logger := c.Logger
	if cfg.logger != nil {
		logger = cfg.logger
		if id := requestid.Get(c); id != "" {
			logger = logger.With("request_id", id)
		}
	}

	attrs := []slog.Attr{
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.String("client_ip", c.Request.IP),
		slog.String("user_agent", c.Request.Header("User-Agent")),
		slog.Int("bytes", len(c.Response.Body())),
	}
	if c.Route != nil {
		attrs = append(attrs, slog.String("route", c.Route.Name))
	}
	if slow {
		attrs = append(attrs, slog.Bool("slow", true))
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400 || slow:
		level = slog.LevelWarn
	}

	logger.LogAttrs(c.Context(), level, "http request", attrs...)

	return c, nil
}

func (cfg *config) excluded(path string) bool {
	if slices.Contains(cfg.excludePaths, path) {
		return true
	}
	for _, prefix := range cfg.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
