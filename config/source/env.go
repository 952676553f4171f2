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
	"strings"

	"github.com/joho/godotenv"

	"github.com/ooneex/eagle-sub001/config/codec"
)

// Env loads environment variables starting with a prefix. The prefix is
// stripped and the remaining names are nested on underscores, so with
// prefix "APP_" the variable APP_SERVER_PORT becomes server.port.
type Env struct {
	prefix  string
	environ func() []string
}

// NewEnv returns a source over the process environment.
func NewEnv(prefix string) *Env {
	return &Env{prefix: prefix, environ: os.Environ}
}

// Load reads the matching variables.
func (e *Env) Load(_ context.Context) (map[string]any, error) {
	var lines []string
	for _, kv := range e.environ() {
		if rest, ok := strings.CutPrefix(kv, e.prefix); ok {
			lines = append(lines, rest)
		}
	}

	return decodeEnvLines(lines)
}

// DotEnv loads a dotenv file with the same key nesting as [Env].
// A missing file is not an error when the source is optional.
type DotEnv struct {
	path     string
	prefix   string
	optional bool
}

// NewDotEnv returns a source reading the dotenv file at path. Only keys
// starting with prefix are kept, with the prefix stripped.
func NewDotEnv(path, prefix string, optional bool) *DotEnv {
	return &DotEnv{path: path, prefix: prefix, optional: optional}
}

// Load reads the file.
func (d *DotEnv) Load(_ context.Context) (map[string]any, error) {
	vars, err := godotenv.Read(d.path)
	if err != nil {
		if d.optional && os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read dotenv file %q: %w", d.path, err)
	}

	lines := make([]string, 0, len(vars))
	for k, v := range vars {
		if rest, ok := strings.CutPrefix(k, d.prefix); ok {
			lines = append(lines, rest+"="+v)
		}
	}

	return decodeEnvLines(lines)
}

func decodeEnvLines(lines []string) (map[string]any, error) {
	m, err := codec.DecodeMap(codec.EnvVar, []byte(strings.Join(lines, "\n")))
	if err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}

	return m, nil
}
