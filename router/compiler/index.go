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

package compiler

// minStaticForBloom is the number of literal patterns from which the bloom
// filter is consulted before the static map.
const minStaticForBloom = 10

// Hit is a pattern matching a looked-up path.
type Hit[T any] struct {
	Pattern *Pattern
	Value   T
	Params  map[string]string
}

type indexEntry[T any] struct {
	pattern *Pattern
	value   T
}

// Index stores compiled patterns and returns matches in precedence order.
// It is not safe for concurrent mutation; readers may run concurrently once
// writes have stopped.
type Index[T any] struct {
	static      map[string][]indexEntry[T]
	staticCount int
	bloom       *BloomFilter
	dynamic     []indexEntry[T]
}

// NewIndex creates an empty index.
func NewIndex[T any]() *Index[T] {
	return &Index[T]{
		static: make(map[string][]indexEntry[T]),
		bloom:  NewBloomFilter(1024, 3),
	}
}

// Add stores p with value v.
func (ix *Index[T]) Add(p *Pattern, v T) {
	e := indexEntry[T]{pattern: p, value: v}

	if p.IsStatic() {
		ix.static[p.template] = append(ix.static[p.template], e)
		ix.staticCount++
		ix.bloom.Add([]byte(p.template))
		return
	}

	ix.dynamic = append(ix.dynamic, e)
	ix.sortBySpecificity()
}

// Len returns the number of stored patterns.
func (ix *Index[T]) Len() int {
	return ix.staticCount + len(ix.dynamic)
}

// Lookup returns every stored pattern matching path, most specific first.
func (ix *Index[T]) Lookup(path string) []Hit[T] {
	if path == "" {
		path = "/"
	}

	var hits []Hit[T]
	for _, e := range ix.lookupStatic(path) {
		hits = append(hits, Hit[T]{Pattern: e.pattern, Value: e.value, Params: map[string]string{}})
	}
	for _, e := range ix.dynamic {
		if params, ok := e.pattern.Match(path); ok {
			hits = append(hits, Hit[T]{Pattern: e.pattern, Value: e.value, Params: params})
		}
	}

	return hits
}

func (ix *Index[T]) lookupStatic(path string) []indexEntry[T] {
	if ix.staticCount == 0 {
		return nil
	}
	if ix.staticCount >= minStaticForBloom && !ix.bloom.Test([]byte(path)) {
		return nil
	}
	return ix.static[path]
}

// sortBySpecificity keeps dynamic patterns ordered by descending number of
// literal segments. Insertion sort keeps equal patterns in insertion order.
func (ix *Index[T]) sortBySpecificity() {
	entries := ix.dynamic

	for i := 1; i < len(entries); i++ {
		key := entries[i]
		keySpecificity := key.pattern.Specificity()

		j := i - 1
		for j >= 0 && entries[j].pattern.Specificity() < keySpecificity {
			entries[j+1] = entries[j]
			j--
		}
		entries[j+1] = key
	}
}
