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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooneex/eagle-sub001/config/codec"
)

type mapSource map[string]any

func (m mapSource) Load(context.Context) (map[string]any, error) { return m, nil }

type errSource struct{ err error }

func (e errSource) Load(context.Context) (map[string]any, error) { return nil, e.err }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MergesInOrder(t *testing.T) {
	t.Parallel()

	yamlPath := writeFile(t, "base.yaml", "server:\n  addr: \":8080\"\n  read_timeout: 5s\nname: base\n")
	tomlPath := writeFile(t, "override.toml", "[server]\naddr = \":9090\"\n")

	cfg := MustNew(
		WithFile(yamlPath),
		WithFile(tomlPath),
		WithContent([]byte(`{"Name":"eagle","debug":true}`), codec.TypeJSON),
	)
	require.NoError(t, cfg.Load(context.Background()))

	assert.Equal(t, ":9090", cfg.String("server.addr"))
	assert.Equal(t, 5*time.Second, cfg.Duration("server.read_timeout"))
	assert.Equal(t, "eagle", cfg.String("NAME"))
	assert.True(t, cfg.Bool("debug"))
	assert.True(t, cfg.Has("server"))
	assert.False(t, cfg.Has("server.missing"))
	assert.Nil(t, cfg.Get("debug.nested"))
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
		is   error
	}{
		{name: "nil source", opt: WithSource(nil), is: ErrNilSource},
		{name: "unknown extension", opt: WithFile("app.ini")},
		{name: "unknown codec", opt: WithContent(nil, codec.Type("xml")), is: codec.ErrUnknownType},
		{name: "binding not a pointer", opt: WithBinding(struct{}{}), is: ErrInvalidBinding},
		{name: "binding pointer to non struct", opt: WithBinding(new(int)), is: ErrInvalidBinding},
		{name: "empty tag", opt: WithTag("")},
		{name: "invalid schema", opt: WithJSONSchema([]byte("{"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := New(tt.opt)
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}

	assert.Panics(t, func() { MustNew(WithSource(nil)) })
}

func TestLoad_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cfg := MustNew(WithSource(mapSource{"a": 1}), WithSource(errSource{err: boom}))

	err := cfg.Load(context.Background())
	require.ErrorIs(t, err, boom)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "source[1]", cerr.Source)
	assert.Equal(t, "load", cerr.Operation)
	assert.Empty(t, cfg.Values())

	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, cfg.Load(nil), ErrNilContext)
	assert.Panics(t, func() { cfg.MustLoad(context.Background()) })
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := MustNew(WithSource(mapSource{"a": 1})).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type serverSettings struct {
	Addr         string        `config:"addr" default:":8080"`
	ReadTimeout  time.Duration `config:"read_timeout" default:"10s"`
	MaxBodyBytes int64         `config:"max_body_bytes" default:"1048576"`
}

type settings struct {
	Env     string         `config:"env" default:"development"`
	Debug   bool           `config:"debug"`
	Origins []string       `config:"origins" default:"*"`
	Server  serverSettings `config:"server"`
}

func (s *settings) Validate() error {
	if s.Env != "development" && s.Env != "production" {
		return errors.New("env must be development or production")
	}
	return nil
}

func TestLoad_Binding(t *testing.T) {
	t.Parallel()

	var s settings
	cfg := MustNew(
		WithSource(mapSource{
			"debug":  "true",
			"server": map[string]any{"read_timeout": "2s"},
		}),
		WithBinding(&s),
	)
	require.NoError(t, cfg.Load(context.Background()))

	assert.Equal(t, "development", s.Env)
	assert.True(t, s.Debug)
	assert.Equal(t, []string{"*"}, s.Origins)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 2*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, int64(1048576), s.Server.MaxBodyBytes)
}

func TestLoad_BindingValidationKeepsPreviousValues(t *testing.T) {
	t.Parallel()

	env := map[string]any{"env": "production"}
	var s settings
	cfg := MustNew(WithSource(mapSource(env)), WithBinding(&s))
	require.NoError(t, cfg.Load(context.Background()))
	require.Equal(t, "production", s.Env)

	env["env"] = "staging"
	err := cfg.Load(context.Background())

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "binding", cerr.Source)
	assert.Equal(t, "production", s.Env)
	assert.Equal(t, "production", cfg.String("env"))
}

func TestLoad_CustomTag(t *testing.T) {
	t.Parallel()

	var out struct {
		Port int `yaml:"port"`
	}
	cfg := MustNew(WithContent([]byte("port: 81"), codec.TypeYAML), WithTag("yaml"), WithBinding(&out))
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, 81, out.Port)
}

func TestLoad_JSONSchema(t *testing.T) {
	t.Parallel()

	schema := []byte(`{
		"type": "object",
		"required": ["server"],
		"properties": {"server": {"type": "object", "properties": {"port": {"type": "integer", "maximum": 65535}}}}
	}`)

	ok := MustNew(WithContent([]byte("server:\n  port: 8080\n"), codec.TypeYAML), WithJSONSchema(schema))
	require.NoError(t, ok.Load(context.Background()))

	bad := MustNew(WithContent([]byte("server:\n  port: 70000\n"), codec.TypeYAML), WithJSONSchema(schema))
	err := bad.Load(context.Background())
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "json-schema", cerr.Source)
}

func TestLoad_Validator(t *testing.T) {
	t.Parallel()

	cfg := MustNew(
		WithSource(mapSource{"port": 0}),
		WithValidator(func(m map[string]any) error {
			if m["port"] == 0 {
				return errors.New("port required")
			}
			return nil
		}),
	)
	assert.ErrorContains(t, cfg.Load(context.Background()), "port required")
}

func TestWithEnv(t *testing.T) {
	t.Setenv("EAGLECFGTEST_SERVER_ADDR", ":7070")
	t.Setenv("EAGLECFGTEST_DEBUG", "1")

	cfg := MustNew(WithContent([]byte("server:\n  addr: \":80\"\n"), codec.TypeYAML), WithEnv("EAGLECFGTEST_"))
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, ":7070", cfg.String("server.addr"))
	assert.True(t, cfg.Bool("debug"))
}

func TestWithEnvFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, ".env", "APP_LOG_LEVEL=debug\n")
	cfg := MustNew(WithEnvFile(path, "APP_"), WithEnvFile(filepath.Join(t.TempDir(), "missing.env"), "APP_"))
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, "debug", cfg.String("log.level"))
}

func TestWithConsul_SkippedWithoutAgent(t *testing.T) {
	t.Setenv("CONSUL_HTTP_ADDR", "")

	cfg := MustNew(WithConsul("eagle/config.json"))
	assert.Empty(t, cfg.sources)
}

type staticKV struct{ value []byte }

func (s staticKV) Get(key string, _ *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	return &api.KVPair{Key: key, Value: s.value}, &api.QueryMeta{}, nil
}

func TestWithConsul_KV(t *testing.T) {
	t.Parallel()

	cfg := MustNew(
		WithContent([]byte(`{"server":{"addr":":80","name":"local"}}`), codec.TypeJSON),
		withConsulKV("eagle/config.yaml", codec.TypeYAML, staticKV{value: []byte("server:\n  addr: \":6000\"\n")}),
	)
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, ":6000", cfg.String("server.addr"))
	assert.Equal(t, "local", cfg.String("server.name"))
}

func TestConcurrentLoadAndRead(t *testing.T) {
	t.Parallel()

	cfg := MustNew(WithSource(mapSource{"n": 1}))
	require.NoError(t, cfg.Load(context.Background()))

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				_ = cfg.Load(context.Background())
				assert.Equal(t, 1, cfg.Int("n"))
			}
		})
	}
	wg.Wait()
}
