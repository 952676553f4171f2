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

package app

import (
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go4.org/netipx"
)

// loadEnv returns the process environment completed by the dotenv file at
// path. Process variables win over the file.
func loadEnv(path string) (map[string]string, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	if path == "" {
		return env, nil
	}

	fromFile, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	for k, v := range fromFile {
		if _, set := env[k]; !set {
			env[k] = v
		}
	}

	return env, nil
}

// trustedSet builds the IP set of trusted proxies. Entries are CIDR prefixes
// or single addresses.
func trustedSet(entries []string) (*netipx.IPSet, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	var b netipx.IPSetBuilder
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			b.AddPrefix(prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", entry)
		}
		b.Add(addr.Unmap())
	}

	return b.IPSet()
}
