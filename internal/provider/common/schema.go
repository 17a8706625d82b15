package common

import (
	"fmt"

	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator checks raw API payloads before they are decoded, so a
// missing field surfaces as a MalformedResponseError instead of a zero value.
type SchemaValidator struct {
	resource string
	schema   *gojsonschema.Schema
}

func NewSchemaValidator(resource, schema string) (*SchemaValidator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", resource, err)
	}
	return &SchemaValidator{resource: resource, schema: compiled}, nil
}

func MustSchemaValidator(resource, schema string) *SchemaValidator {
	v, err := NewSchemaValidator(resource, schema)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *SchemaValidator) Validate(raw []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &domain.MalformedResponseError{Resource: v.resource, Problems: []string{err.Error()}}
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, len(result.Errors()))
	for i, e := range result.Errors() {
		problems[i] = e.String()
	}
	return &domain.MalformedResponseError{Resource: v.resource, Problems: problems}
}
