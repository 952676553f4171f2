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
	"context"
	"strings"
	"time"

	"github.com/ooneex/eagle-sub001/config"
	"github.com/ooneex/eagle-sub001/logging"
	"github.com/ooneex/eagle-sub001/metrics"
)

// Config is the framework configuration as loaded from files and the
// environment by [LoadConfig].
//
//	service_name: orders
//	environment: production
//	server:
//	  addr: ":9000"
//	  shutdown_timeout: 10s
//	log:
//	  level: warn
type Config struct {
	ServiceName string        `config:"service_name" default:"eagle"`
	Version     string        `config:"version" default:"0.0.0"`
	Environment string        `config:"environment" default:"development"`
	EnvFile     string        `config:"env_file"`
	Server      ServerConfig  `config:"server"`
	Log         LogConfig     `config:"log"`
	Metrics     MetricsConfig `config:"metrics"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr              string        `config:"addr" default:":8080"`
	ReadTimeout       time.Duration `config:"read_timeout" default:"10s"`
	ReadHeaderTimeout time.Duration `config:"read_header_timeout" default:"2s"`
	WriteTimeout      time.Duration `config:"write_timeout" default:"10s"`
	IdleTimeout       time.Duration `config:"idle_timeout" default:"60s"`
	ShutdownTimeout   time.Duration `config:"shutdown_timeout" default:"30s"`
	MaxBodyBytes      int64         `config:"max_body_bytes" default:"10485760"`
	TrustedProxies    []string      `config:"trusted_proxies"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level   string `config:"level" default:"info"`
	Handler string `config:"handler" default:"json"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `config:"enabled"`
	Path      string `config:"path" default:"/metrics"`
	Namespace string `config:"namespace"`
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	ve := &ValidationError{}
	if c.Environment != EnvironmentDevelopment && c.Environment != EnvironmentProduction {
		ve.Add(newInvalidEnumError("environment", c.Environment, []string{EnvironmentDevelopment, EnvironmentProduction}))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		ve.Add(newInvalidValueError("log.level", c.Log.Level, err.Error()))
	}
	switch logging.HandlerType(strings.ToLower(c.Log.Handler)) {
	case logging.JSONHandler, logging.TextHandler, logging.ConsoleHandler:
	default:
		ve.Add(newInvalidEnumError("log.handler", c.Log.Handler, []string{"json", "text", "console"}))
	}
	if c.Server.MaxBodyBytes <= 0 {
		ve.Add(newPositiveError("server.max_body_bytes", c.Server.MaxBodyBytes))
	}

	return ve.ToError()
}

// LoadConfig loads a [Config] from opts, typically a file and an
// environment prefix:
//
//	cfg, err := app.LoadConfig(ctx,
//	    config.WithFile("eagle.yaml"),
//	    config.WithEnv("EAGLE_"),
//	)
func LoadConfig(ctx context.Context, opts ...config.Option) (*Config, error) {
	cfg := &Config{}
	loader, err := config.New(append(opts, config.WithBinding(cfg))...)
	if err != nil {
		return nil, err
	}
	if err = loader.Load(ctx); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithConfig applies a loaded [Config]. Options given after it override
// its values.
func WithConfig(cfg *Config) Option {
	return func(s *settings) {
		if cfg == nil {
			return
		}
		s.serviceName = cfg.ServiceName
		s.serviceVersion = cfg.Version
		s.environment = cfg.Environment
		s.envFile = cfg.EnvFile

		s.server.addr = cfg.Server.Addr
		s.server.readTimeout = cfg.Server.ReadTimeout
		s.server.readHeaderTimeout = cfg.Server.ReadHeaderTimeout
		s.server.writeTimeout = cfg.Server.WriteTimeout
		s.server.idleTimeout = cfg.Server.IdleTimeout
		s.server.shutdownTimeout = cfg.Server.ShutdownTimeout
		s.bodyLimit = cfg.Server.MaxBodyBytes
		s.trustedProxies = append(s.trustedProxies, cfg.Server.TrustedProxies...)

		// Validate already accepted the level.
		level, _ := logging.ParseLevel(cfg.Log.Level)
		s.loggingOpts = append(s.loggingOpts,
			logging.WithLevel(level),
			logging.WithHandlerType(logging.HandlerType(strings.ToLower(cfg.Log.Handler))),
		)

		if cfg.Metrics.Enabled {
			s.metrics.enabled = true
			s.metrics.path = cfg.Metrics.Path
			if cfg.Metrics.Namespace != "" {
				s.metrics.options = append(s.metrics.options, metrics.WithNamespace(cfg.Metrics.Namespace))
			}
		}
	}
}
