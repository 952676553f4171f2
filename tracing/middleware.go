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

package tracing

import (
	"errors"
	"math"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ooneex/eagle-sub001/logging"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/web"
)

// spanKey is the store key holding the request span.
const spanKey = "tracing.span"

const (
	attrPrefixParam  = "http.request.param."
	attrPrefixHeader = "http.request.header."
)

// sensitiveHeaders are never recorded.
var sensitiveHeaders = []string{
	"authorization",
	"cookie",
	"set-cookie",
	"x-api-key",
	"x-auth-token",
	"proxy-authorization",
	"www-authenticate",
}

// EntryOption configures the entries returned by [Tracer.Entries].
type EntryOption func(*entryConfig)

type entryConfig struct {
	excludePaths    map[string]bool
	excludePrefixes []string
	excludePatterns []*regexp.Regexp
	headers         []string
	recordParams    bool
	errs            []error
}

// WithExcludePaths skips spans for the exact paths.
func WithExcludePaths(paths ...string) EntryOption {
	return func(c *entryConfig) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips spans for paths with one of the prefixes.
func WithExcludePrefixes(prefixes ...string) EntryOption {
	return func(c *entryConfig) { c.excludePrefixes = append(c.excludePrefixes, prefixes...) }
}

// WithExcludePatterns skips spans for paths matching one of the regular
// expressions.
func WithExcludePatterns(patterns ...string) EntryOption {
	return func(c *entryConfig) {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				c.errs = append(c.errs, err)
				continue
			}
			c.excludePatterns = append(c.excludePatterns, re)
		}
	}
}

// WithHeaders records the request headers as span attributes.
// Credentials headers are ignored.
func WithHeaders(headers ...string) EntryOption {
	return func(c *entryConfig) {
		for _, h := range headers {
			if !slices.Contains(sensitiveHeaders, strings.ToLower(h)) {
				c.headers = append(c.headers, h)
			}
		}
	}
}

// WithoutParams stops recording path parameters.
func WithoutParams() EntryOption {
	return func(c *entryConfig) { c.recordParams = false }
}

func (c *entryConfig) excluded(path string) bool {
	if c.excludePaths[path] {
		return true
	}
	for _, prefix := range c.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, re := range c.excludePatterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Entries returns the middleware entries tracing each request. The request
// entry runs first: it continues the trace found in the request headers,
// binds the span to the request context and adds trace_id and span_id to
// the request logger. The response entry names the span after the matched
// route and ends it.
//
// It panics on an invalid exclusion pattern.
func (t *Tracer) Entries(opts ...EntryOption) []middleware.Entry {
	cfg := &entryConfig{excludePaths: map[string]bool{}, recordParams: true}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := errors.Join(cfg.errs...); err != nil {
		panic(err)
	}

	start := middleware.Func(func(c *web.Context) (*web.Context, error) {
		if cfg.excluded(c.Request.Path) {
			return c, nil
		}

		raw := c.Request.Raw()
		ctx := t.propagator.Extract(c.Context(), propagation.HeaderCarrier(raw.Header))

		attrs := []attribute.KeyValue{
			semconv.HTTPMethodKey.String(c.Request.Method),
			semconv.HTTPTargetKey.String(raw.URL.RequestURI()),
			attribute.String("http.host", c.Request.Host),
			attribute.String("client.address", c.Request.IP),
			attribute.String("user_agent.original", raw.UserAgent()),
		}
		for _, h := range cfg.headers {
			if v := raw.Header.Get(h); v != "" {
				attrs = append(attrs, attribute.String(attrPrefixHeader+strings.ToLower(h), v))
			}
		}

		ctx, span := t.Tracer().Start(ctx, c.Request.Method+" "+c.Request.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		c.Request.SetContext(ctx)
		c.Store.Set(spanKey, span)
		c.Logger = logging.WithTrace(ctx, c.Logger)

		return c, nil
	})

	finish := middleware.Func(func(c *web.Context) (*web.Context, error) {
		span, ok := web.StoreValue[trace.Span](c.Store, spanKey)
		if !ok {
			return c, nil
		}
		c.Store.Delete(spanKey)

		if c.Route != nil {
			span.SetName(c.Request.Method + " " + c.Route.Path)
			span.SetAttributes(
				semconv.HTTPRouteKey.String(c.Route.Path),
				attribute.String("eagle.route.name", c.Route.Name),
				attribute.String("eagle.controller", c.Route.Controller),
			)
		}
		if cfg.recordParams {
			for k, v := range c.Request.Params {
				span.SetAttributes(attribute.String(attrPrefixParam+k, v))
			}
		}

		status := c.Response.Status()
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
		switch {
		case c.Err != nil && status >= http.StatusInternalServerError:
			span.RecordError(c.Err)
			span.SetStatus(codes.Error, c.Err.Error())
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, http.StatusText(status))
		case c.Err != nil:
			span.RecordError(c.Err)
		}
		span.End()

		return c, nil
	})

	return []middleware.Entry{
		{Event: middleware.EventRequest, Priority: math.MinInt32, Middleware: start},
		{Event: middleware.EventResponse, Priority: math.MaxInt32, Middleware: finish},
	}
}

// SpanFrom returns the request span, or a no-op span when the request is
// not traced.
func SpanFrom(c *web.Context) trace.Span {
	return trace.SpanFromContext(c.Context())
}
