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
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
)

// Start serves the app on addr until ctx is canceled, then shuts down
// gracefully. An empty addr uses the configured address; ":0" picks a free
// port, readable with [App.Addr] once the OnReady hooks run.
//
// Start validates the container's dependency graph, freezes the registry,
// runs the OnStart hooks and prints the banner before accepting requests.
// Signal handling is left to the caller:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := a.Start(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
func (a *App) Start(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.settings.server.addr
	}
	if err := a.container.Validate(); err != nil {
		return fmt.Errorf("invalid dependency graph: %w", err)
	}
	a.registry.Freeze()

	if err := a.executeStartHooks(ctx); err != nil {
		return err
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	a.mu.Lock()
	a.addr = ln.Addr().String()
	a.mu.Unlock()

	server := &http.Server{
		Addr:              a.addr,
		Handler:           a.Handler(),
		ReadTimeout:       a.settings.server.readTimeout,
		ReadHeaderTimeout: a.settings.server.readHeaderTimeout,
		WriteTimeout:      a.settings.server.writeTimeout,
		IdleTimeout:       a.settings.server.idleTimeout,
		MaxHeaderBytes:    a.settings.server.maxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelWarn),
	}

	return a.runServer(ctx, server, ln)
}

func (a *App) runServer(ctx context.Context, server *http.Server, ln net.Listener) error {
	a.printStartupBanner(server.Addr)
	a.logger.Info("server starting",
		"address", server.Addr,
		"environment", a.settings.environment,
		"routes", a.registry.Len(),
		"metrics_enabled", a.metrics != nil,
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()
	a.executeReadyHooks()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		a.logger.Info("server shutting down", "reason", context.Cause(ctx))
	}

	// ctx is already canceled; the shutdown gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.settings.server.shutdownTimeout)
	defer cancel()

	a.executeShutdownHooks(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.executeStopHooks()
	a.logger.Info("server exited")

	return nil
}
