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

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"nil output", []Option{WithOutput(nil)}, ErrNilOutput},
		{"bad handler", []Option{WithHandlerType("xml")}, ErrInvalidHandler},
		{"nil custom", []Option{WithCustomLogger(nil)}, ErrNilLogger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}

	assert.Panics(t, func() { MustNew(WithHandlerType("xml")) })
}

func TestLogger_ServiceAttributes(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t,
		WithServiceName("shop"),
		WithServiceVersion("1.2.3"),
		WithEnvironment("test"),
	)
	th.Logger.Info("hello", "user", "alice")

	th.AssertLog(t, "INFO", "hello", map[string]any{
		"service": "shop",
		"version": "1.2.3",
		"env":     "test",
		"user":    "alice",
	})
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	th.Logger.Info("login", "password", "hunter2", "Authorization", "Bearer x", "user", "bob")

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.Equal(t, redacted, entry.Attrs["password"])
	assert.Equal(t, redacted, entry.Attrs["Authorization"])
	assert.Equal(t, "bob", entry.Attrs["user"])
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelWarn))
	th.Logger.Debug("d")
	th.Logger.Info("i")
	th.Logger.Warn("w")
	th.Logger.Error("e")

	assert.Equal(t, 0, th.CountLevel("DEBUG"))
	assert.Equal(t, 0, th.CountLevel("INFO"))
	assert.Equal(t, 1, th.CountLevel("WARN"))
	assert.Equal(t, 1, th.CountLevel("ERROR"))

	th.Reset()
	require.NoError(t, th.Logger.SetLevel(LevelDebug))
	assert.Equal(t, LevelDebug, th.Logger.Level())
	th.Logger.Debug("d")
	assert.True(t, th.ContainsLog("d"))
}

func TestLogger_CustomLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))
	l := MustNew(WithCustomLogger(custom))

	assert.Same(t, custom, l.Logger())
	require.ErrorIs(t, l.SetLevel(LevelDebug), ErrCannotChangeLevel)
}

func TestLogger_Handlers(t *testing.T) {
	t.Parallel()

	var text bytes.Buffer
	MustNew(WithTextHandler(), WithOutput(&text)).Info("hello", "k", "v")
	assert.Contains(t, text.String(), "msg=hello")
	assert.Contains(t, text.String(), "k=v")

	var console bytes.Buffer
	MustNew(WithConsoleHandler(), WithOutput(&console)).Info("hello", "k", "v")
	assert.Contains(t, console.String(), "hello")
	assert.NotContains(t, console.String(), "\033[", "no colors on non-terminals")

	var colored bytes.Buffer
	MustNew(WithConsoleHandler(), WithOutput(&colored), WithColor(true)).Info("hello")
	assert.Contains(t, colored.String(), "\033[")
}

func TestLogger_WithContext(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)

	th.Logger.WithContext(context.Background()).Info("no span")
	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.NotContains(t, entry.Attrs, fieldTraceID)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	th.Logger.WithContext(ctx).Info("with span")
	th.AssertLog(t, "INFO", "with span", map[string]any{
		fieldTraceID: sc.TraceID().String(),
		fieldSpanID:  sc.SpanID().String(),
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Level{
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		"warn":  LevelWarn,
		"Error": LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("loud")
	require.ErrorIs(t, err, ErrInvalidLevel)
}
