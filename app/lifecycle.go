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
	"fmt"
	"slices"
	"sync"
)

// hooks stores the lifecycle callbacks.
type hooks struct {
	mu         sync.Mutex
	onStart    []func(context.Context) error // sequential, stops on first error
	onReady    []func()                      // asynchronous
	onShutdown []func(context.Context)       // LIFO
	onStop     []func()                      // best effort
}

func (a *App) mustNotBeStarted() {
	if a.registry.Frozen() {
		panic("app: cannot register hooks after the app started")
	}
}

// OnStart registers a hook run before the server listens. Hooks run in
// order; an error aborts the start.
//
//	a.OnStart(func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
func (a *App) OnStart(fn func(context.Context) error) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStart = append(a.hooks.onStart, fn)
}

// OnReady registers a hook run in its own goroutine once the server
// listens. Panics are logged.
func (a *App) OnReady(fn func()) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onReady = append(a.hooks.onReady, fn)
}

// OnShutdown registers a hook run during graceful shutdown, in reverse
// registration order, with the shutdown deadline in ctx.
func (a *App) OnShutdown(fn func(context.Context)) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onShutdown = append(a.hooks.onShutdown, fn)
}

// OnStop registers a hook run after the server stopped. Panics are logged.
func (a *App) OnStop(fn func()) {
	a.mustNotBeStarted()
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStop = append(a.hooks.onStop, fn)
}

func (a *App) executeStartHooks(ctx context.Context) error {
	a.hooks.mu.Lock()
	hooks := slices.Clone(a.hooks.onStart)
	a.hooks.mu.Unlock()

	for i, hook := range hooks {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("OnStart hook %d failed: %w", i, err)
		}
	}

	return nil
}

func (a *App) executeReadyHooks() {
	a.hooks.mu.Lock()
	hooks := slices.Clone(a.hooks.onReady)
	a.hooks.mu.Unlock()

	for _, hook := range hooks {
		go func() {
			defer a.recoverHook("OnReady")
			hook()
		}()
	}
}

func (a *App) executeShutdownHooks(ctx context.Context) {
	a.hooks.mu.Lock()
	hooks := slices.Clone(a.hooks.onShutdown)
	a.hooks.mu.Unlock()

	for _, hook := range slices.Backward(hooks) {
		hook(ctx)
	}
}

func (a *App) executeStopHooks() {
	a.hooks.mu.Lock()
	hooks := slices.Clone(a.hooks.onStop)
	a.hooks.mu.Unlock()

	for _, hook := range hooks {
		func() {
			defer a.recoverHook("OnStop")
			hook()
		}()
	}
}

func (a *App) recoverHook(kind string) {
	if r := recover(); r != nil {
		a.logger.Error(kind+" hook panic", "error", r)
	}
}
