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

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// TestOption configures [App.Test].
type TestOption func(*testConfig)

type testConfig struct {
	timeout time.Duration
	ctx     context.Context //nolint:containedctx // test request configuration
}

// WithTimeout bounds a test request. A negative value disables the timeout.
func WithTimeout(d time.Duration) TestOption {
	return func(cfg *testConfig) { cfg.timeout = d }
}

// WithContext sets the parent context of a test request.
func WithContext(ctx context.Context) TestOption {
	return func(cfg *testConfig) { cfg.ctx = ctx }
}

// Test serves req through [App.Handler] without starting a server.
//
// On timeout Test returns an error while the handler goroutine may still be
// running.
//
//	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
//	resp, err := a.Test(req)
func (a *App) Test(req *http.Request, opts ...TestOption) (*http.Response, error) {
	cfg := &testConfig{
		timeout: time.Second,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx := cfg.ctx
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	req = req.WithContext(ctx)

	recorder := httptest.NewRecorder()
	h := a.Handler()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(recorder, req)
	}()

	select {
	case <-done:
		return recorder.Result(), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("request timeout: %w", ctx.Err())
	}
}

// TestJSON sends body encoded as JSON.
func (a *App) TestJSON(method, path string, body any, opts ...TestOption) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode JSON body: %w", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	return a.Test(req, opts...)
}

// testingT is the subset of testing.T used by [ExpectJSON].
type testingT interface {
	Errorf(format string, args ...any)
}

// ExpectJSON checks the status and content type of resp and decodes its body
// into out.
func ExpectJSON(t testingT, resp *http.Response, statusCode int, out any) {
	if resp.StatusCode != statusCode {
		t.Errorf("expected status %d, got %d", statusCode, resp.StatusCode)
		return
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected Content-Type application/json, got %s", ct)
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Errorf("failed to read response body: %v", err)
		return
	}
	if err = json.Unmarshal(body, out); err != nil {
		t.Errorf("failed to decode JSON: %v\nBody: %s", err, body)
	}
}
