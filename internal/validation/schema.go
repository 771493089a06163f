package validation

import (
	"encoding/json"
	"fmt"
	"os"

	"jurisai-api/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// LoadSchema loads a JSON schema from a file
func LoadSchema(schemaPath string) (*gojsonschema.Schema, error) {
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaPath)
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return schema, nil
}

// ValidateAdvice validates an advice JSON string against a schema
func ValidateAdvice(adviceJSON string, schema *gojsonschema.Schema) error {
	documentLoader := gojsonschema.NewStringLoader(adviceJSON)
	result, err := schema.Validate(documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// ValidateAndParseAdvice validates and unmarshals an advice JSON string
func ValidateAndParseAdvice(adviceJSON string, schemaPath string) (*models.Advice, error) {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := ValidateAdvice(adviceJSON, schema); err != nil {
		return nil, err
	}

	var advice models.Advice
	if err := json.Unmarshal([]byte(adviceJSON), &advice); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &advice, nil
}
