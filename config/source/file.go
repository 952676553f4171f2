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
	"os"

	"github.com/ooneex/eagle-sub001/config/codec"
)

// File loads a configuration document from disk.
type File struct {
	path    string
	decoder codec.Decoder
}

// NewFile returns a source reading path with decoder.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// Load reads and decodes the file.
func (f *File) Load(_ context.Context) (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", f.path, err)
	}

	m, err := codec.DecodeMap(f.decoder, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file %q: %w", f.path, err)
	}

	return m, nil
}

// Content is a source over an in-memory document.
type Content struct {
	data    []byte
	decoder codec.Decoder
}

// NewContent returns a source decoding data with decoder.
func NewContent(data []byte, decoder codec.Decoder) *Content {
	return &Content{data: data, decoder: decoder}
}

// Load decodes the content.
func (c *Content) Load(_ context.Context) (map[string]any, error) {
	return codec.DecodeMap(c.decoder, c.data)
}
