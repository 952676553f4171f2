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

//go:build integration

package app_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ooneex/eagle-sub001/app"
	"github.com/ooneex/eagle-sub001/container"
	"github.com/ooneex/eagle-sub001/logging"
	"github.com/ooneex/eagle-sub001/metrics"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/middleware/accesslog"
	"github.com/ooneex/eagle-sub001/middleware/compression"
	"github.com/ooneex/eagle-sub001/middleware/cors"
	"github.com/ooneex/eagle-sub001/middleware/jwtauth"
	"github.com/ooneex/eagle-sub001/middleware/ratelimit"
	"github.com/ooneex/eagle-sub001/middleware/requestid"
	"github.com/ooneex/eagle-sub001/middleware/security"
	"github.com/ooneex/eagle-sub001/router"
	"github.com/ooneex/eagle-sub001/tracing"
	"github.com/ooneex/eagle-sub001/validation"
	"github.com/ooneex/eagle-sub001/web"
)

var secret = []byte("integration-secret")

type order struct {
	ID    string `json:"id"`
	Item  string `json:"item" validate:"required"`
	Count int    `json:"count" validate:"gte=1"`
}

// orderStore is a request-scoped dependency of the order controllers.
type orderStore struct {
	mu      sync.Mutex
	orders  map[string]order
	created metric.Int64Counter
}

func (s *orderStore) put(ctx context.Context, o order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	s.created.Add(ctx, 1)
}

func (s *orderStore) get(id string) (order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

func token(roles ...string) string {
	signed, err := jwtauth.Sign(secret, &jwtauth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ada",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	})
	Expect(err).NotTo(HaveOccurred())
	return "Bearer " + signed
}

func newOrdersApp(logs io.Writer, spans *tracetest.InMemoryExporter) *app.App {
	a := app.MustNew(
		app.WithServiceName("orders"),
		app.WithServiceVersion("1.0.0"),
		app.WithBannerOutput(nil),
		app.WithLogging(logging.WithOutput(logs), logging.WithLevel(logging.LevelDebug)),
		app.WithMetrics(metrics.WithNamespace("orders")),
		app.WithTracing(tracing.WithExporter(spans)),
		app.WithHealthEndpoints(),
	)

	Expect(a.Use(
		middleware.Entry{Event: middleware.EventRequest, Priority: -100, Middleware: requestid.New()},
		middleware.Entry{Event: middleware.EventRequest, Priority: -50, Middleware: cors.New(cors.WithAllowedOrigins("https://shop.example"))},
		middleware.Entry{Event: middleware.EventRequest, Middleware: ratelimit.New(ratelimit.WithRequestsPerSecond(1), ratelimit.WithBurst(5),
			ratelimit.WithKeyFunc(func(c *web.Context) string { return c.Request.Header("X-Client") }))},
		middleware.Entry{Event: middleware.EventResponse, Middleware: security.New()},
	)).To(Succeed())
	Expect(a.Use(accesslog.New(accesslog.WithExcludePaths("/livez", "/readyz"))...)).To(Succeed())
	Expect(a.Use(compression.Entry(compression.WithMinSize(256)))).To(Succeed())

	created, err := a.Metrics().Meter().Int64Counter("orders_created")
	Expect(err).NotTo(HaveOccurred())
	store := &orderStore{orders: map[string]order{}, created: created}
	Expect(a.Provide("OrderStore", container.Value(store))).To(Succeed())

	auth := middleware.Entry{Event: middleware.EventRequest, Middleware: jwtauth.New(secret)}

	a.MustRoute(router.Definition{
		Name:        "orders.create",
		Controller:  "CreateOrderController",
		Paths:       []string{"/orders"},
		Methods:     []string{http.MethodPost},
		Roles:       []string{"clerk"},
		Lifetime:    container.Request,
		Middlewares: []middleware.Entry{auth},
		Validators: []validation.Entry{
			{Validator: validation.NewStructValidator[order](validation.ScopePayload)},
		},
	}, func(deps container.Deps) (any, error) {
		s := container.Dep[*orderStore](deps, 0)
		return app.ControllerFunc(func(c *web.Context) (*web.Response, error) {
			payload := c.Request.Payload.(map[string]any)
			o := order{
				ID:    requestid.Get(c),
				Item:  payload["item"].(string),
				Count: int(payload["count"].(float64)),
			}
			s.put(c.Request.Context(), o)
			return c.Response.Envelope(http.StatusCreated, "created", o)
		}), nil
	}, "OrderStore")

	a.MustRoute(router.Definition{
		Name:       "orders.show",
		Controller: "ShowOrderController",
		Paths:      []string{"/orders/:id"},
		Methods:    []string{http.MethodGet},
	}, func(deps container.Deps) (any, error) {
		s := container.Dep[*orderStore](deps, 0)
		return app.ControllerFunc(func(c *web.Context) (*web.Response, error) {
			o, ok := s.get(c.Param("id"))
			if !ok {
				return c.Response.Envelope(http.StatusNotFound, "unknown order", nil)
			}
			return c.Response.JSON(http.StatusOK, o)
		}), nil
	}, "OrderStore")

	return a
}

var _ = Describe("App Integration", func() {
	var (
		a     *app.App
		logs  *bytes.Buffer
		spans *tracetest.InMemoryExporter
	)

	BeforeEach(func() {
		logs = &bytes.Buffer{}
		spans = tracetest.NewInMemoryExporter()
		a = newOrdersApp(logs, spans)
	})

	Describe("Order workflow", func() {
		It("creates and reads an order through the full pipeline", func() {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"item":"book","count":2}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", token("clerk"))
			req.Header.Set("Origin", "https://shop.example")
			req.Header.Set("X-Client", "create")

			resp, err := a.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("https://shop.example"))
			Expect(resp.Header.Get("X-Frame-Options")).To(Equal("DENY"))
			Expect(resp.Header.Get("X-RateLimit-Limit")).To(Equal("5"))

			id := resp.Header.Get("X-Request-ID")
			Expect(id).NotTo(BeEmpty())

			var created struct {
				Data  order `json:"data"`
				State struct {
					Success bool `json:"success"`
				} `json:"state"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&created)).To(Succeed())
			Expect(created.State.Success).To(BeTrue())
			Expect(created.Data).To(Equal(order{ID: id, Item: "book", Count: 2}))

			resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var fetched order
			app.ExpectJSON(GinkgoT(), resp, http.StatusOK, &fetched)
			Expect(fetched.Item).To(Equal("book"))

			resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
			Expect(err).NotTo(HaveOccurred())
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring("orders_orders_created"))
		})

		It("rejects invalid payloads with 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"count":0}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", token("clerk"))

			resp, err := a.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring(`"success":false`))
			Expect(string(body)).To(ContainSubstring("item"))
			Expect(resp.Header.Get("X-Content-Type-Options")).To(Equal("nosniff"))
		})

		It("compresses large responses for gzip clients", func() {
			item := strings.Repeat("paperback ", 40)
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"item":"`+item+`","count":1}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", token("clerk"))
			req.Header.Set("X-Client", "compress")

			resp, err := a.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			Expect(resp.Header.Get("Content-Encoding")).To(BeEmpty())
			id := resp.Header.Get("X-Request-ID")

			req = httptest.NewRequest(http.MethodGet, "/orders/"+id, nil)
			req.Header.Set("Accept-Encoding", "br;q=0, gzip")
			resp, err = a.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Encoding")).To(Equal("gzip"))
			Expect(resp.Header.Get("Vary")).To(ContainSubstring("Accept-Encoding"))

			zr, err := gzip.NewReader(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(zr)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(item))
		})
	})

	Describe("Authentication", func() {
		It("requires a bearer token", func() {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := a.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Bearer"))
		})

		It("enforces the route roles", func() {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"item":"pen","count":1}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", token("viewer"))

			resp, err := a.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
		})
	})

	Describe("Rate limiting", func() {
		It("rejects requests beyond the burst", func() {
			codes := make([]int, 0, 7)
			for range 7 {
				req := httptest.NewRequest(http.MethodGet, "/orders/none", nil)
				req.Header.Set("X-Client", "greedy")
				resp, err := a.Test(req)
				Expect(err).NotTo(HaveOccurred())
				codes = append(codes, resp.StatusCode)
			}

			Expect(codes[:5]).To(HaveEach(http.StatusNotFound))
			Expect(codes[5:]).To(HaveEach(http.StatusTooManyRequests))
		})
	})

	Describe("Observability", func() {
		It("records metrics and access logs", func() {
			resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/orders/x", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

			resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
			Expect(err).NotTo(HaveOccurred())
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring(`orders_http_requests_total{method="GET",route="orders.show",status="404"} 1`))

			Expect(logs.String()).To(ContainSubstring(`"path":"/orders/x"`))
			Expect(logs.String()).To(ContainSubstring(`"request_id"`))

			names := make([]string, 0)
			for _, span := range spans.GetSpans() {
				names = append(names, span.Name)
			}
			Expect(names).To(ConsistOf("GET /orders/:id"))
		})

		It("serves the health probes without logging them", func() {
			resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/livez", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/readyz", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

			Expect(logs.String()).NotTo(ContainSubstring(`"path":"/livez"`))
		})
	})

	Describe("Server lifecycle", func() {
		It("serves on an ephemeral port and shuts down on cancel", func() {
			ready := make(chan struct{})
			stopped := make(chan struct{})
			a.OnReady(func() { close(ready) })
			a.OnStop(func() { close(stopped) })

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- a.Start(ctx, "127.0.0.1:0") }()

			Eventually(ready, 5*time.Second).Should(BeClosed())

			resp, err := http.Get(fmt.Sprintf("http://%s/livez", a.Addr()))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			_ = resp.Body.Close()

			cancel()
			Eventually(done, 5*time.Second).Should(Receive(BeNil()))
			Expect(stopped).To(BeClosed())
		})
	})
})

//nolint:paralleltest // Ginkgo manages its own parallelization
func TestAppIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	RegisterFailHandler(Fail)
	RunSpecs(t, "App Integration Suite")
}
