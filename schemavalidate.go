package rigging

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateDocument checks a serialized rig document against an exported schema with a
// general-purpose JSON Schema validator. Violations are returned as a *ValidationError
// with code "schema"; field paths use the document's external names.
func ValidateDocument(doc *SchemaDocument, instance []byte) error {
	schemaJSON, err := doc.JSON("")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(instance),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		path := desc.Field()
		if path == "(root)" {
			path = ""
		}
		errs = append(errs, FieldError{
			FieldPath:  strings.TrimPrefix(path, "(root)."),
			Code:       ErrCodeSchema,
			Message:    desc.Description(),
			Value:      desc.Value(),
			Constraint: desc.Type(),
		})
	}
	return &ValidationError{FieldErrors: errs}
}

// ValidateRecord serializes rec and checks it with ValidateDocument.
func ValidateRecord(doc *SchemaDocument, rec *Record) error {
	if rec == nil {
		return ErrNilRecord
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return ValidateDocument(doc, data)
}
