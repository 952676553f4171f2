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

package jwtauth

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/ooneex/eagle-sub001/errors"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/web"
)

// StoreKey is the store key holding the verified *Claims.
const StoreKey = "jwt.claims"

// Claims are the token claims understood by the middleware.
type Claims struct {
	jwt.RegisteredClaims

	// Roles granted to the subject.
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the claims grant role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Option defines functional options for jwtauth middleware configuration.
type Option func(*config)

type config struct {
	keyFunc  jwt.Keyfunc
	methods  []string
	issuer   string
	audience string
	leeway   time.Duration
	header   string
	logger   *slog.Logger
}

func defaultConfig(secret []byte) *config {
	return &config{
		keyFunc: func(*jwt.Token) (any, error) { return secret, nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
		header:  "Authorization",
		logger:  slog.New(slog.DiscardHandler),
	}
}

// WithKeyFunc sets the function returning the verification key, for
// asymmetric algorithms or key rotation. It replaces the secret.
func WithKeyFunc(fn jwt.Keyfunc) Option {
	return func(cfg *config) {
		cfg.keyFunc = fn
	}
}

// WithSigningMethods sets the accepted "alg" values. Default: HS256
func WithSigningMethods(methods ...string) Option {
	return func(cfg *config) {
		cfg.methods = methods
	}
}

// WithIssuer requires the "iss" claim to equal iss.
func WithIssuer(iss string) Option {
	return func(cfg *config) {
		cfg.issuer = iss
	}
}

// WithAudience requires the "aud" claim to contain aud.
func WithAudience(aud string) Option {
	return func(cfg *config) {
		cfg.audience = aud
	}
}

// WithLeeway allows clock skew when checking time-based claims.
func WithLeeway(d time.Duration) Option {
	return func(cfg *config) {
		cfg.leeway = d
	}
}

// WithHeader sets the header carrying the bearer token. Default: "Authorization"
func WithHeader(name string) Option {
	return func(cfg *config) {
		cfg.header = name
	}
}

// WithLogger sets the logger used for rejected tokens.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// New returns a middleware authenticating requests with tokens signed by secret.
func New(secret []byte, opts ...Option) middleware.Middleware {
	cfg := defaultConfig(secret)
	for _, opt := range opts {
		opt(cfg)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(cfg.methods),
		jwt.WithLeeway(cfg.leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.issuer))
	}
	if cfg.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.audience))
	}
	parser := jwt.NewParser(parserOpts...)

	return middleware.Func(func(c *web.Context) (*web.Context, error) {
		token, found := strings.CutPrefix(c.Request.Header(cfg.header), "Bearer ")
		if !found || token == "" {
			return c, unauthorized(c, "Missing bearer token", nil)
		}

		claims := &Claims{}
		if _, err := parser.ParseWithClaims(token, claims, cfg.keyFunc); err != nil {
			cfg.logger.Debug("token rejected", "error", err)
			return c, unauthorized(c, "Invalid token", err)
		}
		c.Store.Set(StoreKey, claims)

		if c.Route != nil && len(c.Route.Roles) > 0 &&
			!slices.ContainsFunc(c.Route.Roles, claims.HasRole) {
			return c, apperrors.New("Forbidden",
				apperrors.Status(http.StatusForbidden),
				apperrors.WithData(map[string]any{"required_roles": c.Route.Roles}),
			)
		}

		return c, nil
	})
}

func unauthorized(c *web.Context, message string, cause error) error {
	c.Response.Header().Set("WWW-Authenticate", `Bearer realm="api"`)

	opts := []apperrors.ExceptionOption{apperrors.Status(http.StatusUnauthorized)}
	if cause != nil {
		opts = append(opts, apperrors.WithCause(cause))
	}

	return apperrors.New(message, opts...)
}

// ClaimsFrom returns the verified claims of c.
func ClaimsFrom(c *web.Context) (*Claims, bool) {
	return web.StoreValue[*Claims](c.Store, StoreKey)
}

// Sign issues an HS256 token for claims.
func Sign(secret []byte, claims *Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
