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

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// lookup resolves a dot-separated, case-insensitive key. A literal key
// containing dots wins over nested traversal.
func (c *Config) lookup(key string) (any, bool) {
	if c == nil || key == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	key = strings.ToLower(key)
	if v, ok := c.values[key]; ok {
		return v, true
	}

	current := c.values
	segments := strings.Split(key, ".")
	for i, seg := range segments {
		v, ok := current[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		if current, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}

	return nil, false
}

// Get returns the raw value at key, or nil.
func (c *Config) Get(key string) any {
	v, _ := c.lookup(key)
	return v
}

// Has reports whether key is set.
func (c *Config) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

func (c *Config) String(key string) string   { return cast.ToString(c.Get(key)) }
func (c *Config) Int(key string) int         { return cast.ToInt(c.Get(key)) }
func (c *Config) Int64(key string) int64     { return cast.ToInt64(c.Get(key)) }
func (c *Config) Float64(key string) float64 { return cast.ToFloat64(c.Get(key)) }
func (c *Config) Bool(key string) bool       { return cast.ToBool(c.Get(key)) }
func (c *Config) Duration(key string) time.Duration {
	return cast.ToDuration(c.Get(key))
}

// StringSlice returns the value at key as a slice. A comma-separated string
// is split.
func (c *Config) StringSlice(key string) []string {
	v := c.Get(key)
	if s, ok := v.(string); ok {
		if s == "" {
			return []string{}
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	return cast.ToStringSlice(v)
}

func (c *Config) StringMap(key string) map[string]any {
	return cast.ToStringMap(c.Get(key))
}

func (c *Config) StringOr(key, def string) string           { return GetOr(c, key, def) }
func (c *Config) IntOr(key string, def int) int             { return GetOr(c, key, def) }
func (c *Config) BoolOr(key string, def bool) bool          { return GetOr(c, key, def) }
func (c *Config) Float64Or(key string, def float64) float64 { return GetOr(c, key, def) }
func (c *Config) DurationOr(key string, def time.Duration) time.Duration {
	return GetOr(c, key, def)
}

// Get returns the value at key converted to T, or the zero value.
//
//	port := config.Get[int](cfg, "server.port")
func Get[T any](c *Config, key string) T {
	v, _ := GetE[T](c, key)
	return v
}

// GetOr returns the value at key converted to T, or def when the key is
// missing or not convertible.
func GetOr[T any](c *Config, key string, def T) T {
	v, err := GetE[T](c, key)
	if err != nil {
		return def
	}

	return v
}

// GetE returns the value at key converted to T. It fails with
// [ErrKeyNotFound] when the key is absent.
func GetE[T any](c *Config, key string) (T, error) {
	var zero T

	raw, ok := c.lookup(key)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(raw)
	case int:
		out, err = cast.ToIntE(raw)
	case int64:
		out, err = cast.ToInt64E(raw)
	case int32:
		out, err = cast.ToInt32E(raw)
	case uint:
		out, err = cast.ToUintE(raw)
	case uint64:
		out, err = cast.ToUint64E(raw)
	case float64:
		out, err = cast.ToFloat64E(raw)
	case bool:
		out, err = cast.ToBoolE(raw)
	case time.Duration:
		out, err = cast.ToDurationE(raw)
	case time.Time:
		out, err = cast.ToTimeE(raw)
	case []string:
		out, err = cast.ToStringSliceE(raw)
	case []int:
		out, err = cast.ToIntSliceE(raw)
	case map[string]any:
		out, err = cast.ToStringMapE(raw)
	case map[string]string:
		out, err = cast.ToStringMapStringE(raw)
	default:
		return zero, fmt.Errorf("config: cannot convert %q from %T to %T", key, raw, zero)
	}
	if err != nil {
		return zero, fmt.Errorf("config: cannot convert %q to %T: %w", key, zero, err)
	}

	return out.(T), nil
}
