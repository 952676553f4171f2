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

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		template     string
		wantString   string
		wantParams   []string
		wantSpecific int
		wantErr      error
	}{
		{name: "root", template: "/", wantString: "/"},
		{name: "static", template: "/health", wantString: "/health", wantSpecific: 1},
		{name: "missing leading slash", template: "users/:id", wantString: "/users/:id", wantParams: []string{"id"}, wantSpecific: 1},
		{name: "trailing slash", template: "/users/", wantString: "/users", wantSpecific: 1},
		{name: "two params", template: "/users/:id/posts/:post_id", wantString: "/users/:id/posts/:post_id", wantParams: []string{"id", "post_id"}, wantSpecific: 2},
		{name: "empty", template: "  ", wantErr: ErrEmptyTemplate},
		{name: "double slash", template: "/a//b", wantErr: ErrEmptySegment},
		{name: "empty param name", template: "/users/:", wantErr: ErrInvalidParamName},
		{name: "bad param name", template: "/users/:id-x", wantErr: ErrInvalidParamName},
		{name: "duplicate param", template: "/:id/x/:id", wantErr: ErrDuplicateParamName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := Compile(tt.template)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantString, p.String())
			if tt.wantParams == nil {
				assert.Empty(t, p.ParamNames())
				assert.True(t, p.IsStatic())
			} else {
				assert.Equal(t, tt.wantParams, p.ParamNames())
				assert.False(t, p.IsStatic())
			}
			assert.Equal(t, tt.wantSpecific, p.Specificity())
		})
	}
}

func TestMustCompile_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustCompile("/a//b") })
	assert.NotPanics(t, func() { MustCompile("/a/:b") })
}

func TestPattern_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		template  string
		candidate string
		want      map[string]string
		wantOK    bool
	}{
		{template: "/users/:id", candidate: "/users/123", want: map[string]string{"id": "123"}, wantOK: true},
		{template: "/users/:id", candidate: "/users/123/extra"},
		{template: "/users/:id", candidate: "/users/"},
		{template: "/users/:id", candidate: "/users"},
		{template: "/users/:id", candidate: "/people/1"},
		{template: "/users/:id", candidate: "users/1"},
		{template: "/users/:id/posts/:pid", candidate: "/users/a/posts/b", want: map[string]string{"id": "a", "pid": "b"}, wantOK: true},
		{template: "/users/:id/posts/:pid", candidate: "/users/a/comments/b"},
		{template: "/files/:name", candidate: "/files/report.v2.pdf", want: map[string]string{"name": "report.v2.pdf"}, wantOK: true},
		{template: "/n/:num", candidate: "/n/007", want: map[string]string{"num": "007"}, wantOK: true},
		{template: "/health", candidate: "/health", want: map[string]string{}, wantOK: true},
		{template: "/health", candidate: "/healthz"},
		{template: "/", candidate: "/", want: map[string]string{}, wantOK: true},
		{template: "/", candidate: "", want: map[string]string{}, wantOK: true},
		{template: "/", candidate: "/x"},
	}

	for _, tt := range tests {
		t.Run(tt.template+" "+tt.candidate, func(t *testing.T) {
			t.Parallel()
			p := MustCompile(tt.template)

			got, ok := p.Match(tt.candidate)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, p.Test(tt.candidate))
		})
	}
}

func TestPattern_MatchReturnsConcreteValues(t *testing.T) {
	t.Parallel()

	templates := []string{"/a/:x", "/a/:x/b/:y", "/:first/:second/:third", "/v1/:org/repos/:repo/issues/:n"}
	values := []string{"1", "abc", "with space", "ümlaut", "x.y"}

	for _, tmpl := range templates {
		p := MustCompile(tmpl)
		for _, v := range values {
			params := make(map[string]string)
			for _, name := range p.ParamNames() {
				params[name] = v + "-" + name
			}

			concrete := tmpl
			for name, value := range params {
				concrete = replaceSegment(concrete, ":"+name, value)
			}

			got, ok := p.Match(concrete)
			require.True(t, ok, "%s should match %s", tmpl, concrete)
			assert.Equal(t, params, got)

			_, ok = p.Match(concrete + "/extra")
			assert.False(t, ok, "trailing segment must not match")
		}
	}
}

func replaceSegment(path, segment, value string) string {
	out := ""
	start := 1
	for i := 1; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			seg := path[start:i]
			if seg == segment {
				seg = value
			}
			out += "/" + seg
			start = i + 1
		}
	}

	return out
}

func TestPattern_Build(t *testing.T) {
	t.Parallel()

	p := MustCompile("/users/:id/files/:name")

	got, err := p.Build(map[string]string{"id": "7", "name": "a b"})
	require.NoError(t, err)
	assert.Equal(t, "/users/7/files/a%20b", got)

	_, err = p.Build(map[string]string{"id": "7"})
	require.ErrorIs(t, err, ErrMissingParam)

	root, err := MustCompile("/").Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "/", root)
}
