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
	"path/filepath"
	"strings"

	"github.com/ooneex/eagle-sub001/config/codec"
)

var extensionFormats = map[string]codec.Type{
	".json": codec.TypeJSON,
	".yaml": codec.TypeYAML,
	".yml":  codec.TypeYAML,
	".toml": codec.TypeTOML,
	".env":  codec.TypeEnvVar,
}

func detectFormat(path string) (codec.Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionFormats[ext]; ok {
		return t, nil
	}

	return "", fmt.Errorf("cannot detect format from extension %q, use WithFileAs", ext)
}
