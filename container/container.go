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

package container

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Lifetime controls how long a constructed instance is reused.
type Lifetime string

// Supported lifetimes.
const (
	Singleton Lifetime = "singleton"
	Transient Lifetime = "transient"
	Request   Lifetime = "request"
)

// lookupOrder is the order in which lifetimes are searched by Get.
var lookupOrder = [...]Lifetime{Singleton, Request, Transient}

// Valid reports whether l is a supported lifetime.
func (l Lifetime) Valid() bool {
	switch l {
	case Singleton, Transient, Request:
		return true
	default:
		return false
	}
}

func (l Lifetime) String() string {
	return string(l)
}

// Deps holds the resolved dependencies of a constructor, in manifest order.
// A dependency that is not registered is nil.
type Deps []any

// Dep returns the i-th dependency as T, or the zero value of T when it is
// missing or of another type.
func Dep[T any](d Deps, i int) T {
	var zero T
	if i < 0 || i >= len(d) {
		return zero
	}
	v, ok := d[i].(T)
	if !ok {
		return zero
	}

	return v
}

// Constructor builds an instance from its resolved dependencies.
type Constructor func(deps Deps) (any, error)

// Value returns a constructor that always yields v.
func Value(v any) Constructor {
	return func(Deps) (any, error) {
		return v, nil
	}
}

// Resolver is implemented by [Container] and [Scope].
type Resolver interface {
	Get(key string) (any, error)
}

// registration is one key under one lifetime.
type registration struct {
	key      string
	lifetime Lifetime
	ctor     Constructor
	deps     []string
}

// Container stores registrations and singleton instances.
// It is safe for concurrent use.
type Container struct {
	logger *slog.Logger

	mu         sync.RWMutex
	regs       map[string]map[Lifetime]*registration
	order      []string
	singletons map[string]any
	group      singleflight.Group
}

// Option configures a [Container].
type Option func(*Container)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		logger:     slog.New(slog.DiscardHandler),
		regs:       make(map[string]map[Lifetime]*registration),
		singletons: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// addConfig holds the settings of a single registration.
type addConfig struct {
	lifetime Lifetime
	deps     []string
}

// AddOption configures a registration.
type AddOption func(*addConfig)

// WithLifetime sets the lifetime of the registration. Defaults to [Singleton].
func WithLifetime(l Lifetime) AddOption {
	return func(cfg *addConfig) {
		cfg.lifetime = l
	}
}

// WithDependencies declares the keys passed to the constructor, in order.
func WithDependencies(keys ...string) AddOption {
	return func(cfg *addConfig) {
		cfg.deps = append(cfg.deps, keys...)
	}
}

// Add registers ctor under key.
// It returns a [*DuplicateKeyError] if key is already registered for the
// same lifetime. The same key under another lifetime is accepted.
func (c *Container) Add(key string, ctor Constructor, opts ...AddOption) error {
	cfg := addConfig{lifetime: Singleton}
	for _, opt := range opts {
		opt(&cfg)
	}

	if key == "" {
		return ErrEmptyKey
	}
	if ctor == nil {
		return fmt.Errorf("%w for %q", ErrNilConstructor, key)
	}
	if !cfg.lifetime.Valid() {
		return fmt.Errorf("%w %q for %q", ErrInvalidLifetime, cfg.lifetime, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byLifetime, ok := c.regs[key]
	if !ok {
		byLifetime = make(map[Lifetime]*registration, 1)
		c.regs[key] = byLifetime
		c.order = append(c.order, key)
	}
	if _, exists := byLifetime[cfg.lifetime]; exists {
		return &DuplicateKeyError{Key: key, Lifetime: cfg.lifetime}
	}

	byLifetime[cfg.lifetime] = &registration{
		key:      key,
		lifetime: cfg.lifetime,
		ctor:     ctor,
		deps:     slices.Clone(cfg.deps),
	}
	c.logger.Debug("component registered", "key", key, "lifetime", cfg.lifetime, "dependencies", cfg.deps)

	return nil
}

// MustAdd is like Add but panics on error.
func (c *Container) MustAdd(key string, ctor Constructor, opts ...AddOption) {
	if err := c.Add(key, ctor, opts...); err != nil {
		panic(fmt.Sprintf("container: %v", err))
	}
}

// Has reports whether key is registered under any lifetime.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.regs[key]

	return ok
}

// HasIn reports whether key is registered under lifetime.
func (c *Container) HasIn(key string, lifetime Lifetime) bool {
	return c.registrationIn(key, lifetime) != nil
}

// Keys returns the registered keys in registration order.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.order)
}

// Get resolves key. It returns nil and no error when key is not registered.
// Request-lifetime registrations resolved here are built on every call.
func (c *Container) Get(key string) (any, error) {
	return c.get(key, nil)
}

// GetIn resolves key under a specific lifetime.
// It returns nil and no error when key is not registered for that lifetime.
func (c *Container) GetIn(key string, lifetime Lifetime) (any, error) {
	return c.getIn(key, lifetime, nil)
}

// GetAll resolves every registration of key, one instance per lifetime, in
// the order singleton, request, transient.
func (c *Container) GetAll(key string) ([]any, error) {
	return c.getAll(key, nil)
}

// Validate checks the dependency manifest of every registration for cycles.
func (c *Container) Validate() error {
	for _, key := range c.Keys() {
		for _, l := range lookupOrder {
			reg := c.registrationIn(key, l)
			if reg == nil {
				continue
			}
			if err := c.checkCycles(reg); err != nil {
				return err
			}
		}
	}

	return nil
}

// NewScope returns a scope that caches request-lifetime instances.
func (c *Container) NewScope() *Scope {
	return &Scope{
		c:         c,
		instances: make(map[string]any),
	}
}

func (c *Container) get(key string, s *Scope) (any, error) {
	reg := c.lookup(key)
	if reg == nil {
		return nil, nil
	}

	return c.resolveChecked(reg, s)
}

func (c *Container) getIn(key string, lifetime Lifetime, s *Scope) (any, error) {
	reg := c.registrationIn(key, lifetime)
	if reg == nil {
		return nil, nil
	}

	return c.resolveChecked(reg, s)
}

func (c *Container) getAll(key string, s *Scope) ([]any, error) {
	var out []any
	for _, l := range lookupOrder {
		reg := c.registrationIn(key, l)
		if reg == nil {
			continue
		}
		inst, err := c.resolveChecked(reg, s)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}

	return out, nil
}

// lookup returns the registration used when key is requested without a lifetime.
func (c *Container) lookup(key string) *registration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byLifetime := c.regs[key]
	for _, l := range lookupOrder {
		if reg, ok := byLifetime[l]; ok {
			return reg
		}
	}

	return nil
}

func (c *Container) registrationIn(key string, l Lifetime) *registration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.regs[key][l]
}

func (c *Container) resolveChecked(reg *registration, s *Scope) (any, error) {
	if err := c.checkCycles(reg); err != nil {
		return nil, err
	}

	return c.resolve(reg, s)
}

// checkCycles walks the manifest graph from reg depth-first and fails on the
// first key found twice on the active path.
func (c *Container) checkCycles(reg *registration) error {
	var path []string
	done := make(map[string]bool)

	var visit func(r *registration) error
	visit = func(r *registration) error {
		if i := slices.Index(path, r.key); i >= 0 {
			cycle := append(slices.Clone(path[i:]), r.key)
			return &CircularDependencyError{Cycle: cycle}
		}
		if done[r.key] {
			return nil
		}

		path = append(path, r.key)
		for _, dep := range r.deps {
			next := c.lookup(dep)
			if next == nil {
				continue
			}
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		done[r.key] = true

		return nil
	}

	return visit(reg)
}

// resolve builds or fetches an instance. The graph must be acyclic.
func (c *Container) resolve(reg *registration, s *Scope) (any, error) {
	switch reg.lifetime {
	case Singleton:
		return c.singleton(reg)
	case Request:
		if s != nil {
			return s.cached(reg)
		}
		return c.build(reg, nil)
	default:
		return c.build(reg, s)
	}
}

func (c *Container) singleton(reg *registration) (any, error) {
	c.mu.RLock()
	inst, ok := c.singletons[reg.key]
	c.mu.RUnlock()
	if ok {
		return inst, nil
	}

	inst, err, _ := c.group.Do(reg.key, func() (any, error) {
		c.mu.RLock()
		cached, found := c.singletons[reg.key]
		c.mu.RUnlock()
		if found {
			return cached, nil
		}

		// Singletons never capture request-scoped instances.
		built, buildErr := c.build(reg, nil)
		if buildErr != nil {
			return nil, buildErr
		}

		c.mu.Lock()
		c.singletons[reg.key] = built
		c.mu.Unlock()

		return built, nil
	})

	return inst, err
}

// build resolves the dependencies of reg and calls its constructor.
func (c *Container) build(reg *registration, s *Scope) (any, error) {
	deps := make(Deps, len(reg.deps))
	for i, key := range reg.deps {
		next := c.lookup(key)
		if next == nil {
			c.logger.Debug("dependency not registered, using nil", "key", reg.key, "dependency", key)
			continue
		}
		inst, err := c.resolve(next, s)
		if err != nil {
			return nil, err
		}
		deps[i] = inst
	}

	inst, err := reg.ctor(deps)
	if err != nil {
		return nil, &ConstructionError{Key: reg.key, Lifetime: reg.lifetime, Err: err}
	}
	c.logger.Debug("component constructed", "key", reg.key, "lifetime", reg.lifetime)

	return inst, nil
}

// Resolve resolves key from r and asserts the instance to T.
// An unknown key yields the zero value of T and no error.
func Resolve[T any](r Resolver, key string) (T, error) {
	var zero T
	inst, err := r.Get(key)
	if err != nil || inst == nil {
		return zero, err
	}

	v, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, not %T", ErrTypeMismatch, key, inst, zero)
	}

	return v, nil
}
