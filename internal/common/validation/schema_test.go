package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIntentDocument(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		valid     bool
		badField  string
		wantError bool
	}{
		{
			name:  "valid table",
			doc:   `{"greeting": {"question": ["hello", "hi"], "answer": "Hi there!"}, "time": {"question": ["what time is it"], "answer": "TIME"}}`,
			valid: true,
		},
		{
			name:  "empty table",
			doc:   `{}`,
			valid: true,
		},
		{
			name:  "missing answer is tolerated",
			doc:   `{"broken": {"question": ["anything"]}}`,
			valid: true,
		},
		{
			name:  "missing questions is tolerated",
			doc:   `{"greeting": {"answer": "Hi"}}`,
			valid: true,
		},
		{
			name:     "questions not a list",
			doc:      `{"greeting": {"question": "hello", "answer": "Hi"}}`,
			valid:    false,
			badField: "greeting",
		},
		{
			name:     "answer not a string",
			doc:      `{"greeting": {"question": ["hello"], "answer": 42}}`,
			valid:    false,
			badField: "greeting",
		},
		{
			name:  "top level array",
			doc:   `[1, 2, 3]`,
			valid: false,
		},
		{
			name:      "not json",
			doc:       `{"greeting": `,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateIntentDocument([]byte(tt.doc))
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, "errors: %v", result.GetErrorMessages())
			if !tt.valid {
				assert.NotEmpty(t, result.Errors)
			}
			if tt.badField != "" {
				assert.True(t, result.HasErrors(tt.badField), "errors: %v", result.GetErrorMessages())
			}
		})
	}
}
