package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// IntentFileSchema describes responses.json: an object keyed by intent name
// whose values carry a list of question variants and an answer.
//
// Both fields are optional so one bad entry never drops the whole file: an
// entry without "answer" resolves to an error answer at request time, one
// without "question" loads with no variants.
const IntentFileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": { "minLength": 1 },
  "additionalProperties": {
    "type": "object",
    "properties": {
      "question": {
        "type": "array",
        "items": { "type": "string" }
      },
      "answer": { "type": "string" }
    }
  }
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var intentSchema = gojsonschema.NewStringLoader(IntentFileSchema)

// ValidateIntentDocument validates a raw responses.json document.
func ValidateIntentDocument(document []byte) (*ValidationResult, error) {
	return ValidateDocument(intentSchema, document)
}

// ValidateDocument validates document against schema. The error return is
// reserved for documents that are not JSON at all or a broken schema.
func ValidateDocument(schema gojsonschema.JSONLoader, document []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}
