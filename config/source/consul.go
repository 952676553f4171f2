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

package source

import (
	"context"
	"fmt"
	"path"

	"github.com/hashicorp/consul/api"

	"github.com/ooneex/eagle-sub001/config/codec"
)

// ConsulKV is the part of the Consul KV client used by [Consul].
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul loads a configuration document stored under one Consul key.
//
// The client is configured from the standard environment variables
// CONSUL_HTTP_ADDR and CONSUL_HTTP_TOKEN.
type Consul struct {
	kv        ConsulKV
	key       string
	decoder   codec.Decoder
	lastIndex uint64
}

// NewConsul returns a source reading key. A nil kv uses a client built
// from the environment.
func NewConsul(key string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}

	return &Consul{kv: kv, key: key, decoder: decoder}, nil
}

// Load fetches and decodes the key. A missing key yields an empty map.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	pair, meta, err := c.kv.Get(c.key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key %q: %w", c.key, err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}
	if pair == nil {
		return make(map[string]any), nil
	}

	m, err := codec.DecodeMap(c.decoder, pair.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode consul key %q: %w", path.Base(c.key), err)
	}

	return m, nil
}

// LastIndex returns the Consul index of the last successful read.
func (c *Consul) LastIndex() uint64 {
	return c.lastIndex
}
