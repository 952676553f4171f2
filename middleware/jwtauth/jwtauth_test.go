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

//go:build !integration

package jwtauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ooneex/eagle-sub001/errors"
	"github.com/ooneex/eagle-sub001/web"
)

var secret = []byte("test-secret")

func token(t *testing.T, roles []string, exp time.Time) string {
	t.Helper()

	signed, err := Sign(secret, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "eagle",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Roles: roles,
	})
	require.NoError(t, err)

	return signed
}

func contextWith(authorization string, roles ...string) *web.Context {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}
	c := web.NewContext(r)
	c.Route = &web.RouteInfo{Name: "admin", Roles: roles}

	return c
}

func TestNew_ValidToken(t *testing.T) {
	t.Parallel()

	tok := token(t, []string{"admin"}, time.Now().Add(time.Hour))
	c, err := New(secret).Next(contextWith("Bearer "+tok, "admin"))
	require.NoError(t, err)

	claims, ok := ClaimsFrom(c)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.HasRole("admin"))
}

func TestNew_Unauthorized(t *testing.T) {
	t.Parallel()

	valid := time.Now().Add(time.Hour)
	tests := []struct {
		name          string
		authorization string
		opts          []Option
	}{
		{"missing header", "", nil},
		{"not bearer", "Basic abc", nil},
		{"garbage", "Bearer not-a-token", nil},
		{"expired", "Bearer " + token(t, nil, time.Now().Add(-time.Hour)), nil},
		{"wrong secret", "Bearer " + token(t, nil, valid), []Option{WithKeyFunc(func(*jwt.Token) (any, error) {
			return []byte("other"), nil
		})}},
		{"wrong issuer", "Bearer " + token(t, nil, valid), []Option{WithIssuer("someone-else")}},
		{"wrong method", "Bearer " + token(t, nil, valid), []Option{WithSigningMethods("RS256")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(secret, tt.opts...).Next(contextWith(tt.authorization))
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
			assert.NotEmpty(t, c.Response.Header().Get("WWW-Authenticate"))

			_, ok := ClaimsFrom(c)
			assert.False(t, ok)
		})
	}
}

func TestNew_Roles(t *testing.T) {
	t.Parallel()

	tok := token(t, []string{"editor"}, time.Now().Add(time.Hour))

	_, err := New(secret).Next(contextWith("Bearer "+tok, "admin"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusOf(err))

	_, err = New(secret).Next(contextWith("Bearer "+tok, "admin", "editor"))
	require.NoError(t, err)

	_, err = New(secret).Next(contextWith("Bearer " + tok))
	require.NoError(t, err, "routes without roles only need a valid token")
}

func TestNew_IssuerAndLeeway(t *testing.T) {
	t.Parallel()

	tok := token(t, nil, time.Now().Add(-5*time.Second))

	_, err := New(secret, WithIssuer("eagle"), WithLeeway(time.Minute)).Next(contextWith("Bearer " + tok))
	require.NoError(t, err)
}

func TestNew_CustomHeader(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Auth", "Bearer "+token(t, nil, time.Now().Add(time.Hour)))

	_, err := New(secret, WithHeader("X-Auth")).Next(web.NewContext(r))
	require.NoError(t, err)
}
