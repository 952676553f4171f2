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
	"bytes"
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var schemaPrinter = message.NewPrinter(language.English)

// SchemaValidator checks request data against a JSON Schema.
type SchemaValidator struct {
	scope  Scope
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles schemaJSON for scope.
func NewSchemaValidator(scope Scope, schemaJSON string) (*SchemaValidator, error) {
	schema, err := compileSchema(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return &SchemaValidator{scope: scope, schema: schema}, nil
}

// MustSchemaValidator is like NewSchemaValidator but panics on error.
func MustSchemaValidator(scope Scope, schemaJSON string) *SchemaValidator {
	v, err := NewSchemaValidator(scope, schemaJSON)
	if err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}

	return v
}

// Scope returns the scope the validator was built for.
func (v *SchemaValidator) Scope() Scope {
	return v.scope
}

// Validate implements [Validator].
func (v *SchemaValidator) Validate(_ context.Context, data any) (Result, error) {
	return v.ValidateSync(data), nil
}

// ValidateSync implements [SyncValidator]. Data is round-tripped through
// JSON so structs and typed maps are checked the way clients send them.
func (v *SchemaValidator) ValidateSync(data any) Result {
	raw, err := json.Marshal(data)
	if err != nil {
		return Fail(Detail{Message: fmt.Sprintf("cannot encode %T: %v", data, err)})
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Fail(Detail{Message: err.Error()})
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return Ok()
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return Fail(Detail{Message: err.Error()})
	}

	var details []Detail
	collectSchemaErrors(verr, &details)

	return Fail(details...)
}

// compileSchema compiles a JSON Schema from a JSON string.
func compileSchema(schemaJSON string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()

	const url = "schema.json"
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	return compiler.Compile(url)
}

// collectSchemaErrors flattens the leaves of the error tree into details.
func collectSchemaErrors(verr *jsonschema.ValidationError, details *[]Detail) {
	if verr == nil {
		return
	}
	if len(verr.Causes) == 0 {
		*details = append(*details, Detail{
			Property: strings.Join(verr.InstanceLocation, "."),
			Message:  verr.ErrorKind.LocalizedString(schemaPrinter),
		})
		return
	}
	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, details)
	}
}
