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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values[T any](hits []Hit[T]) []T {
	out := make([]T, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Value)
	}

	return out
}

func TestIndex_Precedence(t *testing.T) {
	t.Parallel()

	ix := NewIndex[string]()
	ix.Add(MustCompile("/:a/:b"), "params-only")
	ix.Add(MustCompile("/users/:id"), "users-param")
	ix.Add(MustCompile("/users/me"), "users-me")
	ix.Add(MustCompile("/:kind/me"), "kind-me")
	ix.Add(MustCompile("/users/me"), "users-me-again")

	hits := ix.Lookup("/users/me")
	assert.Equal(t, []string{"users-me", "users-me-again", "users-param", "kind-me", "params-only"}, values(hits))
	assert.Equal(t, 5, ix.Len())

	assert.Equal(t, map[string]string{}, hits[0].Params)
	assert.Equal(t, map[string]string{"id": "me"}, hits[2].Params)
	assert.Equal(t, map[string]string{"a": "users", "b": "me"}, hits[4].Params)
}

func TestIndex_NoMatch(t *testing.T) {
	t.Parallel()

	ix := NewIndex[int]()
	ix.Add(MustCompile("/a"), 1)
	ix.Add(MustCompile("/b/:id"), 2)

	assert.Empty(t, ix.Lookup("/c"))
	assert.Empty(t, ix.Lookup("/b"))
	assert.Equal(t, []int{1}, values(ix.Lookup("/a")))
}

func TestIndex_ManyStaticRoutes(t *testing.T) {
	t.Parallel()

	ix := NewIndex[int]()
	for i := range 50 {
		ix.Add(MustCompile(fmt.Sprintf("/static/%d", i)), i)
	}

	for i := range 50 {
		hits := ix.Lookup(fmt.Sprintf("/static/%d", i))
		require.Len(t, hits, 1)
		assert.Equal(t, i, hits[0].Value)
	}
	assert.Empty(t, ix.Lookup("/static/50"))
	assert.Empty(t, ix.Lookup("/"))
}

func TestBloomFilter(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(512, 3)
	for i := range 20 {
		bf.Add(fmt.Appendf(nil, "/item/%d", i))
	}
	for i := range 20 {
		assert.True(t, bf.Test(fmt.Appendf(nil, "/item/%d", i)), "no false negatives")
	}

	tiny := NewBloomFilter(0, 0)
	tiny.Add([]byte("x"))
	assert.True(t, tiny.Test([]byte("x")))
}
