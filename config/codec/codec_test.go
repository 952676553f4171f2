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

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  Type
		data string
	}{
		{TypeJSON, `{"server":{"port":8080,"host":"localhost"}}`},
		{TypeYAML, "server:\n  port: 8080\n  host: localhost\n"},
		{TypeTOML, "[server]\nport = 8080\nhost = \"localhost\"\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()

			d, err := For(tt.typ)
			require.NoError(t, err)

			m, err := DecodeMap(d, []byte(tt.data))
			require.NoError(t, err)

			server, ok := m["server"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "localhost", server["host"])
			assert.EqualValues(t, 8080, server["port"])
		})
	}
}

func TestDecoders_Invalid(t *testing.T) {
	t.Parallel()

	inputs := map[Type]string{
		TypeJSON: `{"server":`,
		TypeYAML: "server: [unclosed",
		TypeTOML: "[server\nport = ",
	}
	for typ, data := range inputs {
		d, err := For(typ)
		require.NoError(t, err)

		_, err = DecodeMap(d, []byte(data))
		assert.Error(t, err, typ)
	}
}

func TestFor_Unknown(t *testing.T) {
	t.Parallel()

	_, err := For("ini")
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestDecodeMap_Empty(t *testing.T) {
	t.Parallel()

	m, err := DecodeMap(JSON, nil)
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.NotNil(t, m)
}

func TestEnvVar(t *testing.T) {
	t.Parallel()

	data := "SERVER_PORT=8080\nSERVER_HOST= localhost \nDEBUG=true\nBROKEN\n_=x\nDEBUG_LEVEL=2\n"

	var m map[string]any
	require.NoError(t, EnvVar.Decode([]byte(data), &m))

	assert.Equal(t, map[string]any{"port": "8080", "host": "localhost"}, m["server"])
	assert.Equal(t, map[string]any{"level": "2"}, m["debug"], "nested key replaces the scalar")

	var wrong []string
	assert.Error(t, EnvVar.Decode([]byte("A=1"), &wrong))
}
