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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"github.com/ooneex/eagle-sub001/config/codec"
	"github.com/ooneex/eagle-sub001/config/source"
)

// Source produces one layer of configuration values.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// Validator is implemented by bindings that check their own consistency.
type Validator interface {
	Validate() error
}

// Option configures a [Config].
type Option func(c *Config) error

// Config holds configuration merged from its sources.
//
// Config is safe for concurrent use. Load may be called again to refresh
// the values; readers observe either the old or the new values, never a mix.
type Config struct {
	mu         sync.RWMutex
	values     map[string]any
	sources    []Source
	binding    any
	tagName    string
	schema     *jsonschema.Schema
	validators []func(map[string]any) error
	logger     *slog.Logger
}

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return ErrNilSource
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile loads a file whose format is detected from its extension.
// Environment variables in path are expanded.
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		t, err := detectFormat(path)
		if err != nil {
			return newError("file", "detect-format", err)
		}
		return WithFileAs(path, t)(c)
	}
}

// WithFileAs loads a file decoded as t.
func WithFileAs(path string, t codec.Type) Option {
	return func(c *Config) error {
		d, err := codec.For(t)
		if err != nil {
			return newError("file", "codec", err)
		}
		c.sources = append(c.sources, source.NewFile(os.ExpandEnv(path), d))
		return nil
	}
}

// WithContent loads an in-memory document decoded as t.
func WithContent(data []byte, t codec.Type) Option {
	return func(c *Config) error {
		d, err := codec.For(t)
		if err != nil {
			return newError("content", "codec", err)
		}
		c.sources = append(c.sources, source.NewContent(data, d))
		return nil
	}
}

// WithEnv loads environment variables starting with prefix.
// APP_SERVER_PORT with prefix "APP_" becomes server.port.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewEnv(prefix))
		return nil
	}
}

// WithEnvFile loads a dotenv file, keeping keys starting with prefix.
// A missing file is ignored.
func WithEnvFile(path, prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewDotEnv(os.ExpandEnv(path), prefix, true))
		return nil
	}
}

// WithConsul loads the Consul key at path, decoded by the path's extension.
// The option does nothing when CONSUL_HTTP_ADDR is not set, so local runs
// work without a Consul agent.
func WithConsul(path string) Option {
	return func(c *Config) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		t, err := detectFormat(path)
		if err != nil {
			return newError("consul", "detect-format", err)
		}
		return withConsulKV(path, t, nil)(c)
	}
}

func withConsulKV(path string, t codec.Type, kv source.ConsulKV) Option {
	return func(c *Config) error {
		d, err := codec.For(t)
		if err != nil {
			return newError("consul", "codec", err)
		}
		src, err := source.NewConsul(path, d, kv)
		if err != nil {
			return newError("consul", "connect", err)
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithBinding decodes the loaded values into target, a pointer to a struct.
func WithBinding(target any) Option {
	return func(c *Config) error {
		v := reflect.ValueOf(target)
		if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return ErrInvalidBinding
		}
		c.binding = target
		return nil
	}
}

// WithTag sets the struct tag used by the binding. Default "config".
func WithTag(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return errors.New("config: tag name cannot be empty")
		}
		c.tagName = name
		return nil
	}
}

// WithJSONSchema validates the merged values against a JSON Schema.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return newError("json-schema", "parse", err)
		}
		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource("config.json", doc); err != nil {
			return newError("json-schema", "compile", err)
		}
		s, err := compiler.Compile("config.json")
		if err != nil {
			return newError("json-schema", "compile", err)
		}
		c.schema = s
		return nil
	}
}

// WithValidator adds a check run against the merged values.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn != nil {
			c.validators = append(c.validators, fn)
		}
		return nil
	}
}

// WithLogger sets the logger used to report loading. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// New creates a Config. Errors from all options are joined.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		values:  make(map[string]any),
		tagName: "config",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	var errs error
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		errs = errors.Join(errs, opt(c))
	}
	if errs != nil {
		return nil, errs
	}

	return c, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	return c
}

// Load reads every source, merges, validates and binds the result. On
// failure the previously loaded values and binding are left untouched.
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	merged := make(map[string]any)
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := fmt.Sprintf("source[%d]", i)

		values, err := src.Load(ctx)
		if err != nil {
			return newError(name, "load", err)
		}
		if err = mergo.Map(&merged, lowerKeys(values), mergo.WithOverride); err != nil {
			return newError(name, "merge", err)
		}
		c.logger.Debug("config source loaded", "source", name, "keys", len(values))
	}

	if c.schema != nil {
		if err := c.validateSchema(merged); err != nil {
			return newError("json-schema", "validate", err)
		}
	}
	for i, fn := range c.validators {
		if err := fn(merged); err != nil {
			return newError(fmt.Sprintf("validator[%d]", i), "validate", err)
		}
	}

	var bound reflect.Value
	if c.binding != nil {
		var err error
		if bound, err = c.decode(merged); err != nil {
			return newError("binding", "bind", err)
		}
		if v, ok := bound.Interface().(Validator); ok {
			if err = v.Validate(); err != nil {
				return newError("binding", "validate", err)
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = merged
	if bound.IsValid() {
		reflect.ValueOf(c.binding).Elem().Set(bound.Elem())
	}

	return nil
}

// MustLoad is like Load but panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

// Values returns a shallow copy of the loaded values.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}

	return out
}

// validateSchema round-trips values through JSON so the validator sees the
// same number and map types a JSON document would produce.
func (c *Config) validateSchema(values map[string]any) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	return c.schema.Validate(doc)
}

// decode binds values into a fresh instance of the binding type.
func (c *Config) decode(values map[string]any) (reflect.Value, error) {
	target := reflect.New(reflect.TypeOf(c.binding).Elem())

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err = dec.Decode(values); err != nil {
		return reflect.Value{}, err
	}
	if err = applyDefaults(target.Elem()); err != nil {
		return reflect.Value{}, err
	}

	return target, nil
}

// applyDefaults fills zero fields from their `default` tag, descending into
// nested structs.
func applyDefaults(v reflect.Value) error {
	t := v.Type()
	for i := range v.NumField() {
		field, sf := v.Field(i), t.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeFor[time.Time]() {
			if err := applyDefaults(field); err != nil {
				return err
			}
			continue
		}

		def, ok := sf.Tag.Lookup("default")
		if !ok || !field.IsZero() {
			continue
		}
		if err := setDefault(field, def); err != nil {
			return fmt.Errorf("default for field %s: %w", sf.Name, err)
		}
	}

	return nil
}

func setDefault(field reflect.Value, def string) error {
	var (
		val any
		err error
	)

	switch field.Kind() {
	case reflect.String:
		val = def
	case reflect.Bool:
		val, err = cast.ToBoolE(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeFor[time.Duration]() {
			val, err = cast.ToDurationE(def)
		} else {
			var n int64
			n, err = cast.ToInt64E(def)
			val = n
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err = cast.ToUint64E(def)
	case reflect.Float32, reflect.Float64:
		val, err = cast.ToFloat64E(def)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		val = strings.Split(def, ",")
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	if err != nil {
		return err
	}

	field.Set(reflect.ValueOf(val).Convert(field.Type()))

	return nil
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch nested := v.(type) {
		case map[string]any:
			v = lowerKeys(nested)
		case map[any]any:
			v = lowerKeys(cast.ToStringMap(nested))
		}
		out[strings.ToLower(k)] = v
	}

	return out
}
