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

package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/ooneex/eagle-sub001/errors"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/web"
)

// Option defines functional options for ratelimit middleware configuration.
type Option func(*config)

type config struct {
	requestsPerSecond float64
	burst             int
	keyFunc           func(c *web.Context) string
	limiterTTL        time.Duration
	cleanupInterval   time.Duration
	headers           bool
	logger            *slog.Logger
	now               func() time.Time
}

func defaultConfig() *config {
	return &config{
		requestsPerSecond: 100,
		burst:             20,
		keyFunc:           func(c *web.Context) string { return c.Request.IP },
		limiterTTL:        10 * time.Minute,
		cleanupInterval:   time.Minute,
		headers:           true,
		logger:            slog.New(slog.DiscardHandler),
		now:               time.Now,
	}
}

// WithRequestsPerSecond sets the sustained rate per key. Default: 100
func WithRequestsPerSecond(rps float64) Option {
	return func(cfg *config) {
		cfg.requestsPerSecond = rps
	}
}

// WithBurst sets the bucket size per key. Default: 20
func WithBurst(burst int) Option {
	return func(cfg *config) {
		cfg.burst = burst
	}
}

// WithKeyFunc sets the function extracting the rate limit key.
// Default: the client IP.
func WithKeyFunc(fn func(c *web.Context) string) Option {
	return func(cfg *config) {
		cfg.keyFunc = fn
	}
}

// WithLimiterTTL sets how long an idle key keeps its bucket. Default: 10m
func WithLimiterTTL(ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.limiterTTL = ttl
	}
}

// WithCleanupInterval sets how often idle buckets are evicted. Default: 1m
func WithCleanupInterval(d time.Duration) Option {
	return func(cfg *config) {
		cfg.cleanupInterval = d
	}
}

// WithHeaders enables or disables the X-RateLimit-* response headers.
func WithHeaders(enabled bool) Option {
	return func(cfg *config) {
		cfg.headers = enabled
	}
}

// WithLogger sets the logger used for rejected requests.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiters holds one bucket per key. Idle buckets are evicted lazily.
type limiters struct {
	cfg *config

	mu          sync.Mutex
	entries     map[string]*entry
	lastCleanup time.Time
}

func (l *limiters) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) >= l.cfg.cleanupInterval {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > l.cfg.limiterTTL {
				delete(l.entries, k)
			}
		}
		l.lastCleanup = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.cfg.requestsPerSecond), l.cfg.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now

	return e.limiter
}

func (l *limiters) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// New returns a request middleware enforcing the rate limit.
func New(opts ...Option) middleware.Middleware {
	mw, _ := newLimiter(opts...)
	return mw
}

func newLimiter(opts ...Option) (middleware.Middleware, *limiters) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	store := &limiters{cfg: cfg, entries: make(map[string]*entry), lastCleanup: cfg.now()}

	mw := middleware.Func(func(c *web.Context) (*web.Context, error) {
		key := cfg.keyFunc(c)
		now := cfg.now()
		limiter := store.get(key, now)

		r := limiter.ReserveN(now, 1)
		delay := r.DelayFrom(now)
		if delay > 0 {
			r.CancelAt(now)
		}

		h := c.Response.Header()
		if cfg.headers {
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.burst))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, int(limiter.TokensAt(now)))))
		}
		if delay <= 0 {
			return c, nil
		}

		retry := int(math.Ceil(delay.Seconds()))
		h.Set("Retry-After", strconv.Itoa(retry))
		cfg.logger.Warn("rate limit exceeded", "key", key, "retry_after", retry)

		return c, apperrors.New("Too many requests",
			apperrors.Status(http.StatusTooManyRequests),
			apperrors.WithData(map[string]any{"retry_after": retry}),
		)
	})

	return mw, store
}
