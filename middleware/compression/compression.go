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

package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"

	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/web"
)

// Priority places the compression entry after the other response
// middlewares that may rewrite the body.
const Priority = math.MaxInt32 - 1

// Option defines functional options for compression middleware configuration.
type Option func(*config)

type config struct {
	logger *slog.Logger

	gzipLevel   int
	brotliLevel int
	minSize     int

	enableGzip   bool
	enableBrotli bool

	excludePaths        map[string]bool
	excludeExtensions   []string
	excludeContentTypes []string
}

func defaultConfig() *config {
	return &config{
		logger:       slog.New(slog.DiscardHandler),
		gzipLevel:    gzip.DefaultCompression,
		brotliLevel:  4, // dynamic content; higher levels cost a lot of CPU
		enableGzip:   true,
		enableBrotli: true,
		excludePaths: make(map[string]bool),
	}
}

// WithGzipLevel sets the gzip level, from gzip.HuffmanOnly to gzip.BestCompression.
func WithGzipLevel(level int) Option {
	return func(cfg *config) {
		if level >= gzip.HuffmanOnly && level <= gzip.BestCompression {
			cfg.gzipLevel = level
		}
	}
}

// WithBrotliLevel sets the Brotli level, from 0 to 11.
func WithBrotliLevel(level int) Option {
	return func(cfg *config) {
		if level >= brotli.BestSpeed && level <= brotli.BestCompression {
			cfg.brotliLevel = level
		}
	}
}

// WithMinSize leaves bodies shorter than n bytes uncompressed.
func WithMinSize(n int) Option {
	return func(cfg *config) { cfg.minSize = max(n, 0) }
}

// WithGzipDisabled offers Brotli only.
func WithGzipDisabled() Option {
	return func(cfg *config) { cfg.enableGzip = false }
}

// WithBrotliDisabled offers gzip only.
func WithBrotliDisabled() Option {
	return func(cfg *config) { cfg.enableBrotli = false }
}

// WithExcludePaths leaves responses to the exact paths uncompressed.
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithExcludeExtensions leaves responses to paths with the extensions
// uncompressed, such as ".png".
func WithExcludeExtensions(exts ...string) Option {
	return func(cfg *config) { cfg.excludeExtensions = append(cfg.excludeExtensions, exts...) }
}

// WithExcludeContentTypes leaves responses whose content type contains one
// of the values uncompressed.
func WithExcludeContentTypes(types ...string) Option {
	return func(cfg *config) {
		for _, t := range types {
			cfg.excludeContentTypes = append(cfg.excludeContentTypes, strings.ToLower(t))
		}
	}
}

// WithLogger sets the logger reporting compression failures.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

var (
	gzipPools   sync.Map // level -> *sync.Pool
	brotliPools sync.Map
)

func gzipPool(level int) *sync.Pool {
	if p, ok := gzipPools.Load(level); ok {
		return p.(*sync.Pool)
	}
	p, _ := gzipPools.LoadOrStore(level, &sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, level)
		return w
	}})

	return p.(*sync.Pool)
}

func brotliPool(level int) *sync.Pool {
	if p, ok := brotliPools.Load(level); ok {
		return p.(*sync.Pool)
	}
	p, _ := brotliPools.LoadOrStore(level, &sync.Pool{New: func() any {
		return brotli.NewWriterLevel(io.Discard, level)
	}})

	return p.(*sync.Pool)
}

// New returns a response middleware that compresses the buffered body with
// Brotli or gzip, negotiated from Accept-Encoding with q-values. Brotli wins
// a tie. Responses that are empty, already encoded, 204, 206 or 304, or
// streamed content types are left alone.
//
//	app.Use(compression.Entry(compression.WithMinSize(1024)))
func New(opts ...Option) middleware.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return middleware.Func(func(c *web.Context) (*web.Context, error) {
		res := c.Response
		body := res.Body()
		if len(body) == 0 || len(body) < cfg.minSize || cfg.excluded(c.Request.Path) {
			return c, nil
		}
		if skipStatus(res.Status()) || res.Header().Get("Content-Encoding") != "" ||
			cfg.skipContentType(res.Header().Get("Content-Type")) {
			return c, nil
		}

		encoding := chooseEncoding(c.Request.Header("Accept-Encoding"), cfg)
		if encoding == "" {
			return c, nil
		}

		compressed, err := cfg.compress(encoding, body)
		if err != nil {
			cfg.logger.Error("compression failed", "encoding", encoding, "error", err)
			return c, nil
		}

		h := res.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", encoding)
		addVary(h, "Accept-Encoding")
		res.SetBody(compressed)

		return c, nil
	})
}

// Entry returns New as a response entry at [Priority].
func Entry(opts ...Option) middleware.Entry {
	return middleware.Entry{Event: middleware.EventResponse, Priority: Priority, Middleware: New(opts...)}
}

func (cfg *config) compress(encoding string, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(body) / 2)

	switch encoding {
	case "br":
		pool := brotliPool(cfg.brotliLevel)
		w := pool.Get().(*brotli.Writer)
		defer pool.Put(w)
		w.Reset(&buf)
		if _, err := w.Write(body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		w.Reset(io.Discard)
	default:
		pool := gzipPool(cfg.gzipLevel)
		w := pool.Get().(*gzip.Writer)
		defer pool.Put(w)
		w.Reset(&buf)
		if _, err := w.Write(body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		w.Reset(io.Discard)
	}

	return buf.Bytes(), nil
}

func (cfg *config) excluded(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, ext := range cfg.excludeExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

func (cfg *config) skipContentType(ct string) bool {
	if ct == "" {
		return false
	}
	ct = strings.ToLower(ct)
	for _, always := range []string{"text/event-stream", "application/grpc", "application/octet-stream"} {
		if strings.Contains(ct, always) {
			return true
		}
	}
	for _, excluded := range cfg.excludeContentTypes {
		if strings.Contains(ct, excluded) {
			return true
		}
	}

	return false
}

func skipStatus(code int) bool {
	return code == http.StatusNoContent ||
		code == http.StatusNotModified ||
		code == http.StatusPartialContent
}

func addVary(h http.Header, value string) {
	for _, v := range h.Values("Vary") {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), value) {
				return
			}
		}
	}
	h.Add("Vary", value)
}

// chooseEncoding picks "br", "gzip" or nothing from an Accept-Encoding value.
func chooseEncoding(acceptEncoding string, cfg *config) string {
	if acceptEncoding == "" {
		return ""
	}

	brQ, gzipQ := -1.0, -1.0
	for _, part := range strings.Split(strings.ToLower(acceptEncoding), ",") {
		name, q := parseCoding(part)
		switch name {
		case "br":
			brQ = q
		case "gzip":
			gzipQ = q
		case "*":
			if brQ < 0 {
				brQ = q
			}
			if gzipQ < 0 {
				gzipQ = q
			}
		}
	}

	useGzip := cfg.enableGzip && gzipQ > 0
	if cfg.enableBrotli && brQ > 0 && (brQ >= gzipQ || !useGzip) {
		return "br"
	}
	if useGzip {
		return "gzip"
	}

	return ""
}

// parseCoding splits "gzip;q=0.5" into its name and quality. A missing or
// malformed quality is 1.
func parseCoding(part string) (string, float64) {
	name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
	q := 1.0
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || strings.TrimSpace(k) != "q" {
			continue
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			q = parsed
		}
	}

	return strings.TrimSpace(name), q
}
