// pkg/registry/schema.go
package registry

import "strings"

// TimeSentinel is the answer value that asks for the current time instead of
// literal text. Compared case-insensitively.
const TimeSentinel = "TIME"

// Intent is one named category of predefined questions.
type Intent struct {
	Name      string
	Questions []string
	// Answer is nil when the entry in the file had no "answer" field.
	Answer *string
}

// HasAnswer reports whether the entry carried an answer.
func (i Intent) HasAnswer() bool {
	return i.Answer != nil
}

// IsTimeSentinel reports whether the answer asks for the current time.
func (i Intent) IsTimeSentinel() bool {
	return i.Answer != nil && strings.EqualFold(*i.Answer, TimeSentinel)
}

// IntentTable is the read-only, ordered intent set. Order follows the key
// order of the source file and decides ties during matching.
type IntentTable struct {
	intents []Intent
	index   map[string]int
}

// NewIntentTable builds a table from intents in the given order. A later
// duplicate name replaces the earlier entry but keeps its position.
func NewIntentTable(intents ...Intent) *IntentTable {
	t := &IntentTable{index: make(map[string]int, len(intents))}
	for _, in := range intents {
		t.put(in)
	}
	return t
}

// Empty returns a table with no intents.
func Empty() *IntentTable {
	return NewIntentTable()
}

func (t *IntentTable) put(in Intent) {
	if pos, ok := t.index[in.Name]; ok {
		t.intents[pos] = in
		return
	}
	t.index[in.Name] = len(t.intents)
	t.intents = append(t.intents, in)
}

// Lookup returns the intent registered under name.
func (t *IntentTable) Lookup(name string) (Intent, bool) {
	if t == nil {
		return Intent{}, false
	}
	pos, ok := t.index[name]
	if !ok {
		return Intent{}, false
	}
	return t.intents[pos], true
}

// Intents returns the intents in table order. The slice is a copy.
func (t *IntentTable) Intents() []Intent {
	if t == nil {
		return nil
	}
	out := make([]Intent, len(t.intents))
	copy(out, t.intents)
	return out
}

// Names returns intent names in table order.
func (t *IntentTable) Names() []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, len(t.intents))
	for i, in := range t.intents {
		names[i] = in.Name
	}
	return names
}

func (t *IntentTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.intents)
}

// Each calls fn for every intent in order until fn returns false.
func (t *IntentTable) Each(fn func(Intent) bool) {
	if t == nil {
		return
	}
	for _, in := range t.intents {
		if !fn(in) {
			return
		}
	}
}
