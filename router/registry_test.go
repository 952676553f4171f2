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

package router

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ooneex/eagle-sub001/errors"
	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/validation"
	"github.com/ooneex/eagle-sub001/web"
)

func TestRegistry_FindRouteParams(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{Controller: "UserController", Paths: []string{"/users/:id"}, Methods: []string{"GET"}})

	m, err := reg.FindRoute(Query{Path: "/users/123", Method: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "123"}, m.Params)
	assert.Equal(t, "UserController", m.Route.Controller)
	assert.Equal(t, "/users/:id", m.Pattern.String())
}

func TestRegistry_FindRouteHost(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{
		Controller: "HomeController",
		Paths:      []string{"/"},
		Methods:    []string{"GET"},
		Host:       []Matcher{Literal("example.com")},
	})

	_, err := reg.FindRoute(Query{Path: "/", Method: "GET", Host: "wrong.com"})
	require.ErrorIs(t, err, ErrRouteNotFound)

	_, err = reg.FindRoute(Query{Path: "/", Method: "GET", Host: "Example.COM"})
	require.NoError(t, err)
}

func TestRegistry_FindRouteHostPattern(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{
		Controller: "TenantController",
		Paths:      []string{"/"},
		Methods:    []string{"GET"},
		Host:       []Matcher{MustRegexp(`^[a-z]+\.example\.com$`)},
	})

	_, err := reg.FindRoute(Query{Path: "/", Method: "GET", Host: "acme.example.com"})
	require.NoError(t, err)
	_, err = reg.FindRoute(Query{Path: "/", Method: "GET", Host: "example.com"})
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRegistry_FindRouteIP(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{
		Controller: "AdminController",
		Paths:      []string{"/admin"},
		Methods:    []string{"GET"},
		IP: []Matcher{
			Literal("127.0.0.1"),
			MustCIDR("10.0.0.0/8"),
			MustIPRange("192.168.1.10", "192.168.1.20"),
		},
	})

	tests := []struct {
		ip string
		ok bool
	}{
		{"127.0.0.1", true},
		{"::ffff:127.0.0.1", true},
		{"10.20.30.40", true},
		{"192.168.1.15", true},
		{"192.168.1.21", false},
		{"8.8.8.8", false},
		{"", false},
	}

	for _, tt := range tests {
		_, err := reg.FindRoute(Query{Path: "/admin", Method: "GET", IP: tt.ip})
		if tt.ok {
			assert.NoError(t, err, tt.ip)
		} else {
			assert.ErrorIs(t, err, ErrRouteNotFound, tt.ip)
		}
	}
}

func TestRegistry_NotFoundError(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{Controller: "UserController", Paths: []string{"/users/:id"}, Methods: []string{"GET"}})

	tests := []struct {
		name string
		q    Query
	}{
		{"path", Query{Path: "/posts/1", Method: "GET"}},
		{"extra segment", Query{Path: "/users/1/extra", Method: "GET"}},
		{"method", Query{Path: "/users/1", Method: "POST"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := reg.FindRoute(tt.q)
			require.Error(t, err)
			assert.True(t, IsNotFound(err))

			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.q.Path, nf.Path)
			assert.Equal(t, tt.q.Method, nf.Method)
			assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
		})
	}
}

func TestRegistry_Precedence(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{Name: "any", Controller: "A", Paths: []string{"/:a/:b"}, Methods: []string{"GET"}})
	reg.MustRegister(Definition{Name: "user", Controller: "B", Paths: []string{"/users/:id"}, Methods: []string{"GET"}})
	reg.MustRegister(Definition{Name: "me", Controller: "C", Paths: []string{"/users/me"}, Methods: []string{"GET"}})
	reg.MustRegister(Definition{Name: "user2", Controller: "D", Paths: []string{"/users/:uid"}, Methods: []string{"GET"}})

	tests := []struct {
		path string
		want string
	}{
		{"/users/me", "me"},
		{"/users/42", "user"},
		{"/posts/42", "any"},
	}

	for _, tt := range tests {
		m, err := reg.FindRoute(Query{Path: tt.path, Method: "GET"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.Route.Name, tt.path)
	}
}

func TestRegistry_MethodFallsThroughToNextCandidate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{Name: "static", Controller: "A", Paths: []string{"/items/new"}, Methods: []string{"GET"}})
	reg.MustRegister(Definition{Name: "dynamic", Controller: "B", Paths: []string{"/items/:id"}, Methods: []string{"POST"}})

	m, err := reg.FindRoute(Query{Path: "/items/new", Method: "POST"})
	require.NoError(t, err)
	assert.Equal(t, "dynamic", m.Route.Name)
}

func TestRegistry_WildcardMethods(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	d := reg.MustRegister(Definition{Controller: "AnyController", Paths: []string{"/any"}, Methods: []string{"*", "get", "POST"}})

	assert.ElementsMatch(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}, d.Methods)
	assert.Len(t, d.Methods, 7)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{"empty controller", Definition{Paths: []string{"/"}, Methods: []string{"GET"}}, ErrEmptyController},
		{"no paths", Definition{Controller: "C", Methods: []string{"GET"}}, ErrNoPaths},
		{"no methods", Definition{Controller: "C", Paths: []string{"/"}}, ErrInvalidMethod},
		{"unknown method", Definition{Controller: "C", Paths: []string{"/"}, Methods: []string{"FETCH"}}, ErrInvalidMethod},
		{"bad middleware", Definition{
			Controller:  "C",
			Paths:       []string{"/"},
			Methods:     []string{"GET"},
			Middlewares: []middleware.Entry{{Event: "later", Middleware: middleware.Func(middleware.Halt)}},
		}, middleware.ErrInvalidEvent},
		{"nil validator", Definition{
			Controller: "C",
			Paths:      []string{"/"},
			Methods:    []string{"GET"},
			Validators: []validation.Entry{{Scope: validation.ScopePayload}},
		}, validation.ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRegistry().Register(tt.def)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := NewRegistry().Register(Definition{Controller: "C", Paths: []string{"/:"}, Methods: []string{"GET"}})
	require.Error(t, err, "invalid template")
}

func TestRegistry_Names(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	first := reg.MustRegister(Definition{Controller: "UserController", Paths: []string{"/users/"}, Methods: []string{"GET"}})
	second := reg.MustRegister(Definition{Controller: "UserController", Paths: []string{"/users/:id"}, Methods: []string{"GET"}})

	assert.Equal(t, "UserController", first.Name)
	assert.Equal(t, "/users", first.Paths[0], "paths are normalized")
	assert.Equal(t, "UserController/users/:id", second.Name)

	_, err := reg.Register(Definition{Name: "UserController", Controller: "Other", Paths: []string{"/other"}, Methods: []string{"GET"}})
	require.ErrorIs(t, err, ErrDuplicateRouteName)

	got, ok := reg.Route("UserController/users/:id")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"UserController"}, reg.Controllers())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_RegisterCopiesDefinition(t *testing.T) {
	t.Parallel()

	def := Definition{Controller: "C", Paths: []string{"/a/"}, Methods: []string{"get"}}
	reg := NewRegistry()
	d := reg.MustRegister(def)

	assert.Equal(t, []string{"/a/"}, def.Paths)
	assert.Equal(t, []string{"get"}, def.Methods)
	assert.Equal(t, []string{"GET"}, d.Methods)
}

func TestRegistry_RegisterCopiesRules(t *testing.T) {
	t.Parallel()

	check := validation.Func(validation.ScopeParams, func(any) validation.Result { return validation.Ok() })
	def := Definition{
		Controller:  "C",
		Paths:       []string{"/a"},
		Methods:     []string{"GET"},
		Host:        []Matcher{Literal("example.com")},
		IP:          []Matcher{Literal("10.0.0.1")},
		Validators:  []validation.Entry{{Validator: check}},
		Middlewares: []middleware.Entry{{Event: middleware.EventRequest, Middleware: middleware.Func(middleware.Halt)}},
	}
	reg := NewRegistry()
	d := reg.MustRegister(def)

	def.Host[0] = Literal("evil.com")
	def.IP[0] = Literal("10.0.0.2")
	def.Validators[0] = validation.Entry{Scope: validation.ScopeEnv, Validator: check}
	def.Middlewares[0].Priority = 99

	_, err := reg.FindRoute(Query{Path: "/a", Method: "GET", Host: "example.com", IP: "10.0.0.1"})
	require.NoError(t, err)
	_, err = reg.FindRoute(Query{Path: "/a", Method: "GET", Host: "evil.com", IP: "10.0.0.1"})
	require.Error(t, err)

	assert.Equal(t, validation.ScopeParams, d.Validators[0].EffectiveScope())
	assert.Zero(t, d.Middlewares[0].Priority)
}

func TestRegistry_UndispatchableValidatorIsKept(t *testing.T) {
	t.Parallel()

	for _, scope := range []validation.Scope{"", "headers"} {
		v := &countingValidator{scope: scope}
		reg := NewRegistry()
		d, err := reg.Register(Definition{
			Controller: "C",
			Paths:      []string{"/x"},
			Methods:    []string{"GET"},
			Validators: []validation.Entry{{Validator: v}},
		})
		require.NoError(t, err, "scope %q", scope)
		require.Len(t, d.Validators, 1)
		assert.False(t, d.Validators[0].Dispatchable())

		for _, s := range validation.Scopes() {
			require.NoError(t, validation.NewDispatcher().Dispatch(context.Background(), validation.DispatchInput{
				Scope: s,
				Data:  map[string]any{},
				Route: d,
			}))
		}
		assert.Zero(t, v.calls.Load())
	}
}

type countingValidator struct {
	scope validation.Scope
	calls atomic.Int32
}

func (v *countingValidator) Scope() validation.Scope { return v.scope }

func (v *countingValidator) Validate(context.Context, any) (validation.Result, error) {
	v.calls.Add(1)
	return validation.Ok(), nil
}

func TestRegistry_Freeze(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{Controller: "C", Paths: []string{"/"}, Methods: []string{"GET"}})
	reg.Freeze()
	assert.True(t, reg.Frozen())

	_, err := reg.Register(Definition{Controller: "D", Paths: []string{"/d"}, Methods: []string{"GET"}})
	require.ErrorIs(t, err, ErrRegistryFrozen)

	_, err = reg.FindRoute(Query{Path: "/", Method: "GET"})
	require.NoError(t, err)
}

func TestRegistry_URLFor(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{Name: "post", Controller: "PostController", Paths: []string{"/users/:uid/posts/:pid"}, Methods: []string{"GET"}})

	u, err := reg.URLFor("post", map[string]string{"uid": "a b", "pid": "7"}, url.Values{"page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, "/users/a%20b/posts/7?page=2", u)

	_, err = reg.URLFor("post", map[string]string{"uid": "1"}, nil)
	require.Error(t, err)

	_, err = reg.URLFor("missing", nil, nil)
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRegistry_ConcurrentLookups(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Definition{Controller: "C", Paths: []string{"/items/:id"}, Methods: []string{"GET"}})
	reg.Freeze()

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			for range 100 {
				m, err := reg.FindRoute(Query{Path: "/items/9", Method: "GET"})
				if assert.NoError(t, err) {
					assert.Equal(t, "9", m.Params["id"])
				}
			}
		})
	}
	wg.Wait()
}

func TestDefinition_RouteConfig(t *testing.T) {
	t.Parallel()

	v := validation.Func(validation.ScopeParams, func(any) validation.Result { return validation.Ok() })
	mw := middleware.Func(func(c *web.Context) (*web.Context, error) { return c, nil })

	d := NewRegistry().MustRegister(Definition{
		Controller:  "C",
		Paths:       []string{"/"},
		Methods:     []string{"GET"},
		Validators:  []validation.Entry{{Validator: v}},
		Middlewares: []middleware.Entry{{Event: middleware.EventRequest, Middleware: mw}},
	})

	var vc validation.RouteConfig = d
	var mc middleware.RouteConfig = d
	assert.Equal(t, "C", vc.ControllerName())
	assert.Len(t, vc.ValidatorEntries(), 1)
	assert.Len(t, mc.MiddlewareEntries(), 1)
	assert.True(t, d.AcceptsMethod("get"))
	assert.Len(t, d.Patterns(), 1)
}
