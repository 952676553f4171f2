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
	"errors"
	"io"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Scope caches request-lifetime instances for one request.
// Singletons and transients are delegated to the parent container.
type Scope struct {
	c *Container

	mu        sync.Mutex
	instances map[string]any
	created   []any
	closed    bool
	group     singleflight.Group
}

// Get resolves key, caching request-lifetime instances in the scope.
func (s *Scope) Get(key string) (any, error) {
	if s.isClosed() {
		return nil, ErrScopeClosed
	}

	return s.c.get(key, s)
}

// GetIn resolves key under a specific lifetime.
func (s *Scope) GetIn(key string, lifetime Lifetime) (any, error) {
	if s.isClosed() {
		return nil, ErrScopeClosed
	}

	return s.c.getIn(key, lifetime, s)
}

// GetAll resolves every registration of key.
func (s *Scope) GetAll(key string) ([]any, error) {
	if s.isClosed() {
		return nil, ErrScopeClosed
	}

	return s.c.getAll(key, s)
}

// Close drops the cached instances and closes those implementing io.Closer,
// most recently created first. Close is idempotent.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	created := s.created
	s.created = nil
	s.instances = nil
	s.mu.Unlock()

	var errs []error
	for _, inst := range slices.Backward(created) {
		if closer, ok := inst.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (s *Scope) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func (s *Scope) cached(reg *registration) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrScopeClosed
	}
	inst, ok := s.instances[reg.key]
	s.mu.Unlock()
	if ok {
		return inst, nil
	}

	inst, err, _ := s.group.Do(reg.key, func() (any, error) {
		s.mu.Lock()
		cached, found := s.instances[reg.key]
		s.mu.Unlock()
		if found {
			return cached, nil
		}

		built, buildErr := s.c.build(reg, s)
		if buildErr != nil {
			return nil, buildErr
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return nil, ErrScopeClosed
		}
		s.instances[reg.key] = built
		s.created = append(s.created, built)

		return built, nil
	})

	return inst, err
}
