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

package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// StructValidator decodes request data into T and checks the "validate"
// struct tags of T. Map data is decoded with weak typing, so "42" from a
// query string fills an int field. Properties are reported by JSON name.
type StructValidator[T any] struct {
	scope    Scope
	validate *validator.Validate
}

// NewStructValidator creates a validator for scope. T must be a struct.
// It panics otherwise, like the constructors of the validator package.
func NewStructValidator[T any](scope Scope) *StructValidator[T] {
	var zero T
	if reflect.TypeOf(zero) == nil || reflect.TypeOf(zero).Kind() != reflect.Struct {
		panic(fmt.Sprintf("validation: %v: %T", ErrInvalidTarget, zero))
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	return &StructValidator[T]{scope: scope, validate: v}
}

// Scope returns the scope the validator was built for.
func (v *StructValidator[T]) Scope() Scope {
	return v.scope
}

// Validate implements [Validator].
func (v *StructValidator[T]) Validate(_ context.Context, data any) (Result, error) {
	return v.ValidateSync(data), nil
}

// ValidateSync implements [SyncValidator].
func (v *StructValidator[T]) ValidateSync(data any) Result {
	target, err := decode[T](data)
	if err != nil {
		return Fail(Detail{Message: err.Error()})
	}

	err = v.validate.Struct(target)
	if err == nil {
		return Ok()
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Fail(Detail{Message: err.Error()})
	}

	details := make([]Detail, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, Detail{
			Property: propertyPath(e.Namespace()),
			Message:  tagMessage(e),
		})
	}

	return Fail(details...)
}

// decode converts data into T.
func decode[T any](data any) (T, error) {
	var target T
	switch d := data.(type) {
	case T:
		return d, nil
	case *T:
		if d != nil {
			return *d, nil
		}
		return target, nil
	case nil:
		return target, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &target,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return target, err
	}
	if err := dec.Decode(data); err != nil {
		return target, fmt.Errorf("cannot decode %T: %w", data, err)
	}

	return target, nil
}

// propertyPath strips the top-level struct name from a validator namespace.
func propertyPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}

// jsonFieldName extracts the JSON field name from a struct field tag.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// tagMessage returns a human-readable message for a tag failure.
func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4", "uuid7":
		return "must be a valid UUID"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "len":
		return fmt.Sprintf("must have length %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("must be %s %s", e.Tag(), e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
