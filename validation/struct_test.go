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

package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUser struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"required,email"`
	Age     int      `json:"age" validate:"omitempty,min=18"`
	Role    string   `json:"role" validate:"omitempty,oneof=admin user"`
	Address *address `json:"address" validate:"omitempty"`
}

type address struct {
	City string `json:"city" validate:"required"`
}

func TestStructValidator(t *testing.T) {
	t.Parallel()

	v := NewStructValidator[createUser](ScopePayload)
	assert.Equal(t, ScopePayload, v.Scope())

	tests := []struct {
		name        string
		data        any
		wantSuccess bool
		wantDetails []Detail
	}{
		{
			name:        "valid map",
			data:        map[string]any{"name": "Ada", "email": "ada@example.com", "age": float64(36)},
			wantSuccess: true,
		},
		{
			name:        "struct value",
			data:        createUser{Name: "Ada", Email: "ada@example.com"},
			wantSuccess: true,
		},
		{
			name:        "struct pointer",
			data:        &createUser{Name: "Ada", Email: "ada@example.com"},
			wantSuccess: true,
		},
		{
			name: "missing fields",
			data: map[string]any{},
			wantDetails: []Detail{
				{Property: "name", Message: "is required"},
				{Property: "email", Message: "is required"},
			},
		},
		{
			name: "weakly typed string number",
			data: map[string]string{"name": "Kid", "email": "kid@example.com", "age": "12"},
			wantDetails: []Detail{
				{Property: "age", Message: "must be at least 18"},
			},
		},
		{
			name: "oneof and email",
			data: map[string]any{"name": "X", "email": "nope", "role": "root"},
			wantDetails: []Detail{
				{Property: "email", Message: "must be a valid email address"},
				{Property: "role", Message: "must be one of [admin user]"},
			},
		},
		{
			name: "nested property",
			data: map[string]any{"name": "X", "email": "x@example.com", "address": map[string]any{}},
			wantDetails: []Detail{
				{Property: "address.city", Message: "is required"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := v.Validate(context.Background(), tt.data)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantDetails, result.Details)
		})
	}
}

func TestStructValidator_DecodeFailure(t *testing.T) {
	t.Parallel()

	v := NewStructValidator[createUser](ScopePayload)
	result := v.ValidateSync([]int{1, 2})

	assert.False(t, result.Success)
	require.Len(t, result.Details, 1)
	assert.Empty(t, result.Details[0].Property)
}

func TestNewStructValidator_RequiresStruct(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewStructValidator[string](ScopeParams) })
	assert.Panics(t, func() { NewStructValidator[any](ScopeParams) })
}
