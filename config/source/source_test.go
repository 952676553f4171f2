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

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooneex/eagle-sub001/config/codec"
)

func TestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600))

	m, err := NewFile(path, codec.YAML).Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 9000, m["server"].(map[string]any)["port"])

	_, err = NewFile(filepath.Join(t.TempDir(), "missing.yaml"), codec.YAML).Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestContent(t *testing.T) {
	t.Parallel()

	m, err := NewContent([]byte(`{"name":"eagle"}`), codec.JSON).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eagle", m["name"])
}

func TestEnv(t *testing.T) {
	t.Parallel()

	e := NewEnv("APP_")
	e.environ = func() []string {
		return []string{"APP_SERVER_PORT=8080", "APP_DEBUG=true", "OTHER=x"}
	}

	m, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"server": map[string]any{"port": "8080"},
		"debug":  "true",
	}, m)
}

func TestDotEnv(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_SERVER_ADDR=:9090\n# comment\nAPP_LOG_LEVEL=\"debug\"\nSKIP=1\n"), 0o600))

	m, err := NewDotEnv(path, "APP_", false).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"server": map[string]any{"addr": ":9090"},
		"log":    map[string]any{"level": "debug"},
	}, m)

	missing := filepath.Join(t.TempDir(), ".env")
	m, err = NewDotEnv(missing, "", true).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = NewDotEnv(missing, "", false).Load(context.Background())
	require.Error(t, err)
}

type fakeKV struct {
	pair *api.KVPair
	err  error
}

func (f *fakeKV) Get(string, *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	return f.pair, &api.QueryMeta{LastIndex: 42}, f.err
}

func TestConsul(t *testing.T) {
	t.Parallel()

	kv := &fakeKV{pair: &api.KVPair{Key: "eagle/config", Value: []byte(`{"server":{"addr":":7000"}}`)}}
	c, err := NewConsul("eagle/config", codec.JSON, kv)
	require.NoError(t, err)

	m, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ":7000", m["server"].(map[string]any)["addr"])
	assert.Equal(t, uint64(42), c.LastIndex())
}

func TestConsul_MissingKeyAndErrors(t *testing.T) {
	t.Parallel()

	c, err := NewConsul("eagle/config", codec.JSON, &fakeKV{})
	require.NoError(t, err)
	m, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m)

	boom := errors.New("unreachable")
	c, err = NewConsul("eagle/config", codec.JSON, &fakeKV{err: boom})
	require.NoError(t, err)
	_, err = c.Load(context.Background())
	require.ErrorIs(t, err, boom)

	c, err = NewConsul("eagle/config", codec.JSON, &fakeKV{pair: &api.KVPair{Value: []byte("{")}})
	require.NoError(t, err)
	_, err = c.Load(context.Background())
	require.Error(t, err)
}
