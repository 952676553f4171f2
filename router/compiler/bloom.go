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

import "hash/fnv"

// BloomFilter answers "definitely absent" or "possibly present" for a set of
// byte strings. It is used to reject paths that cannot be literal routes.
//
// Each element is hashed once with FNV-1a; the hash is combined with one
// seed per hash function to select the bits to set or test.
type BloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

// NewBloomFilter creates a filter of size bits using numHashFuncs hash
// functions. Both are raised to 1 when lower.
func NewBloomFilter(size uint64, numHashFuncs int) *BloomFilter {
	size = max(size, 1)
	numHashFuncs = max(numHashFuncs, 1)

	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := range numHashFuncs {
		//nolint:gosec // G115: numHashFuncs is small
		bf.seeds[i] = uint64(i + 1)
	}

	return bf
}

func (bf *BloomFilter) position(baseHash, seed uint64) uint64 {
	return (baseHash ^ (seed * 0x9e3779b97f4a7c15)) % bf.size
}

// Add inserts data.
func (bf *BloomFilter) Add(data []byte) {
	baseHash := hashBytes(data)
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test reports whether data may have been added. False is always correct.
func (bf *BloomFilter) Test(data []byte) bool {
	baseHash := hashBytes(data)
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}

	return true
}

func hashBytes(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)

	return h.Sum64()
}
