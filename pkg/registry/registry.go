// pkg/registry/registry.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	apperrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/validation"
)

// entry is the on-disk shape of one intent.
type entry struct {
	Question []string `json:"question"`
	Answer   *string  `json:"answer,omitempty"`
}

// LoadRegistry reads, validates and decodes the intent file at path.
func LoadRegistry(path string) (*IntentTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigLoadFailureError(path, err)
	}

	result, err := validation.ValidateIntentDocument(data)
	if err != nil {
		return nil, apperrors.NewConfigLoadFailureError(path, err)
	}
	if !result.Valid {
		return nil, apperrors.NewIntentFileInvalidError(path, result.GetErrorMessages())
	}

	table, err := Decode(data)
	if err != nil {
		return nil, apperrors.NewConfigLoadFailureError(path, err)
	}
	return table, nil
}

// LoadOrEmpty is LoadRegistry for start-up: any failure is logged and an
// empty table is returned so the service still comes up.
func LoadOrEmpty(path string, log logger.Logger) *IntentTable {
	table, err := LoadRegistry(path)
	if err != nil {
		log.WithError(err).Error("Failed to load intents, continuing with an empty table", map[string]interface{}{
			"path": path,
		})
		return Empty()
	}
	log.Info("Intents loaded", map[string]interface{}{
		"path":  path,
		"count": table.Len(),
	})
	return table
}

// Decode parses an intent document keeping the object's key order.
func Decode(data []byte) (*IntentTable, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read intent document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("intent document must be a JSON object, got %v", tok)
	}

	table := Empty()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read intent name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v where intent name was expected", keyTok)
		}

		var e entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("intent %q: %w", name, err)
		}
		questions := e.Question
		if questions == nil {
			questions = []string{}
		}
		table.put(Intent{Name: name, Questions: questions, Answer: e.Answer})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read intent document: %w", err)
	}
	return table, nil
}

// MarshalJSON writes the table as an object in table order.
func (t *IntentTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, in := range t.Intents() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(in.Name)
		if err != nil {
			return nil, err
		}
		questions := in.Questions
		if questions == nil {
			questions = []string{}
		}
		value, err := json.Marshal(entry{Question: questions, Answer: in.Answer})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// With returns a copy of the table with in added or replaced.
func (t *IntentTable) With(in Intent) *IntentTable {
	next := NewIntentTable(t.Intents()...)
	next.put(in)
	return next
}

// Save writes the table to path as indented JSON.
func Save(path string, table *IntentTable) error {
	raw, err := table.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	return os.WriteFile(path, out.Bytes(), 0o644)
}
