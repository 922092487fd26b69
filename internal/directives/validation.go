package directives

import (
	"bytes"
	"encoding/json"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const descriptorInvalidCode = "DIRECTIVE_DESCRIPTOR_INVALID"

// descriptorSchema constrains directive attributes: every value is a string
// and limit, when present, must be numeric. Unknown keys are allowed; they
// classify the directive as ambiguous rather than invalid.
var descriptorSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": map[string]any{"type": "string"},
	"properties": map[string]any{
		"limit": map[string]any{
			"type":    "string",
			"pattern": "^[0-9]+$",
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledDescriptorSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		encoded, err := json.Marshal(descriptorSchema)
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("descriptor.json", bytes.NewReader(encoded)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("descriptor.json")
	})
	return compiledSchema, compileErr
}

// validateAttributes checks parsed descriptor attributes against the
// descriptor schema. A failure means the span is malformed beyond recovery
// and must pass through verbatim.
func validateAttributes(attrs map[string]string) error {
	if len(attrs) == 0 {
		return nil
	}
	compiled, err := compiledDescriptorSchema()
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(attrs))
	for key, value := range attrs {
		payload[key] = value
	}
	if err := compiled.Validate(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "directive descriptor rejected").
			WithTextCode(descriptorInvalidCode)
	}
	return nil
}
