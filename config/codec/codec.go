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

package codec

import (
	"errors"
	"fmt"
)

// Type identifies a codec.
type Type string

// Supported codec types.
const (
	TypeJSON   Type = "json"
	TypeYAML   Type = "yaml"
	TypeTOML   Type = "toml"
	TypeEnvVar Type = "env_var"
)

// ErrUnknownType is returned by [For] for an unsupported type.
var ErrUnknownType = errors.New("codec: unknown type")

// Decoder converts an encoded document into the value pointed to by v.
// Implementations are safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// DecoderFunc adapts a function to [Decoder].
type DecoderFunc func(data []byte, v any) error

// Decode implements Decoder.
func (f DecoderFunc) Decode(data []byte, v any) error {
	return f(data, v)
}

// For returns the decoder of t.
func For(t Type) (Decoder, error) {
	switch t {
	case TypeJSON:
		return JSON, nil
	case TypeYAML:
		return YAML, nil
	case TypeTOML:
		return TOML, nil
	case TypeEnvVar:
		return EnvVar, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
}

// DecodeMap decodes data with d into a map. Empty input yields an empty map.
func DecodeMap(d Decoder, data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if len(data) == 0 {
		return out, nil
	}
	if err := d.Decode(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]any)
	}

	return out, nil
}
