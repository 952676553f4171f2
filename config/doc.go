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

// Package config loads application configuration from layered sources.
//
// Sources are files (JSON, YAML, TOML), in-memory content, environment
// variables, dotenv files and Consul keys. They are merged in registration
// order, later sources overriding earlier ones. Keys are case-insensitive
// and addressed with dot notation.
//
//	cfg := config.MustNew(
//	    config.WithFile("eagle.yaml"),
//	    config.WithEnv("EAGLE_"),
//	    config.WithBinding(&settings),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	addr := cfg.StringOr("server.addr", ":8080")
//
// # Binding
//
// [WithBinding] decodes the merged values into a struct using the "config"
// struct tag (see [WithTag]). Zero fields carrying a `default:"..."` tag
// receive that default, and a binding implementing [Validator] is validated
// before the loaded values are published.
package config
