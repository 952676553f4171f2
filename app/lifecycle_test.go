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

//go:build !integration

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ooneex/eagle-sub001/container"
	"github.com/ooneex/eagle-sub001/logging"
	"github.com/ooneex/eagle-sub001/router"
	"github.com/ooneex/eagle-sub001/web"
)

// LifecycleSuite starts real servers on ephemeral ports.
type LifecycleSuite struct {
	suite.Suite
	app  *App
	logs *logging.TestHelper
}

func (s *LifecycleSuite) SetupTest() {
	s.logs = logging.NewTestHelper(s.T())
	a, err := New(
		WithServiceName("lifecycle"),
		WithLogger(s.logs.Logger),
		WithBannerOutput(io.Discard),
		WithServerConfig(WithShutdownTimeout(2*time.Second)),
	)
	s.Require().NoError(err)
	a.MustRoute(router.Definition{
		Controller: "PingController",
		Paths:      []string{"/ping"},
		Methods:    []string{http.MethodGet},
	}, container.Value(ControllerFunc(func(c *web.Context) (*web.Response, error) {
		return c.Response.Text(http.StatusOK, "pong"), nil
	})))
	s.app = a
}

// start runs the app in the background and waits until it is ready.
func (s *LifecycleSuite) start(ctx context.Context) <-chan error {
	ready := make(chan struct{})
	s.app.OnReady(func() { close(ready) })

	done := make(chan error, 1)
	go func() { done <- s.app.Start(ctx, "127.0.0.1:0") }()

	select {
	case <-ready:
	case err := <-done:
		s.FailNow("server stopped before ready", "error: %v", err)
	case <-time.After(5 * time.Second):
		s.FailNow("server not ready")
	}

	return done
}

func (s *LifecycleSuite) TestServesUntilCanceled() {
	ctx, cancel := context.WithCancel(context.Background())
	done := s.start(ctx)

	s.NotEmpty(s.app.Addr())
	resp, err := http.Get(fmt.Sprintf("http://%s/ping", s.app.Addr()))
	s.Require().NoError(err)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("pong", string(body))

	cancel()
	s.Require().NoError(<-done)
	s.True(s.logs.ContainsLog("server exited"))
}

func (s *LifecycleSuite) TestHookOrder() {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, name)
	}

	s.app.OnStart(func(context.Context) error { record("start"); return nil })
	s.app.OnShutdown(func(context.Context) { record("shutdown 1") })
	s.app.OnShutdown(func(context.Context) { record("shutdown 2") })
	s.app.OnStop(func() { record("stop") })

	ctx, cancel := context.WithCancel(context.Background())
	done := s.start(ctx)
	cancel()
	s.Require().NoError(<-done)

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]string{"start", "shutdown 2", "shutdown 1", "stop"}, order)
}

func (s *LifecycleSuite) TestStartHookErrorAborts() {
	boom := errors.New("migrations failed")
	s.app.OnStart(func(context.Context) error { return boom })

	err := s.app.Start(context.Background(), "127.0.0.1:0")
	s.Require().ErrorIs(err, boom)
	s.Empty(s.app.Addr())
}

func (s *LifecycleSuite) TestRegistrationAfterStart() {
	ctx, cancel := context.WithCancel(context.Background())
	done := s.start(ctx)

	_, err := s.app.Route(router.Definition{Controller: "Late", Paths: []string{"/late"}, Methods: []string{http.MethodGet}}, nil)
	s.ErrorIs(err, router.ErrRegistryFrozen)
	s.Panics(func() { s.app.OnStop(func() {}) })

	cancel()
	s.Require().NoError(<-done)
}

func (s *LifecycleSuite) TestPanickingStopHookIsRecovered() {
	s.app.OnStop(func() { panic("stop failed") })

	ctx, cancel := context.WithCancel(context.Background())
	done := s.start(ctx)
	cancel()

	s.Require().NoError(<-done)
	s.True(s.logs.ContainsLog("OnStop hook panic"))
}

func (s *LifecycleSuite) TestCircularDependenciesFailStart() {
	s.Require().NoError(s.app.Provide("A", container.Value(1), container.WithDependencies("B")))
	s.Require().NoError(s.app.Provide("B", container.Value(2), container.WithDependencies("A")))

	err := s.app.Start(context.Background(), "127.0.0.1:0")
	s.Require().ErrorIs(err, container.ErrCircularDependency)
}

func (s *LifecycleSuite) TestListenError() {
	err := s.app.Start(context.Background(), "256.0.0.1:http")
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to listen")
}

func TestLifecycleSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(LifecycleSuite))
}
