package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/assistant"
	"voice-assistant/pkg/registry"
)

func useTempRegistry(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "responses.json")
	prev := registryPath
	registryPath = path
	t.Cleanup(func() { registryPath = prev })
	return path
}

func TestSplitQuestions(t *testing.T) {
	assert.Equal(t, []string{"hello", "hi there"}, splitQuestions(" hello | | hi there |"))
	assert.Nil(t, splitQuestions("  |  "))
}

func TestAddAndUpdateIntent(t *testing.T) {
	path := useTempRegistry(t)

	require.NoError(t, addIntent("greeting", []string{"hello", "hi"}, "Hello!"))
	require.NoError(t, addIntent("time", []string{"what time is it"}, "TIME"))
	assert.Error(t, addIntent("greeting", []string{"hey"}, "dup"))
	assert.Error(t, addIntent("empty", nil, "x"))

	require.NoError(t, updateIntent("greeting", "add-question", "hey"))
	require.NoError(t, updateIntent("greeting", "remove-question", "hi"))
	require.NoError(t, updateIntent("greeting", "answer", "Hi there!"))
	assert.Error(t, updateIntent("greeting", "remove-question", "never added"))
	assert.Error(t, updateIntent("greeting", "colour", "blue"))
	assert.Error(t, updateIntent("missing", "answer", "x"))

	table, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting", "time"}, table.Names())

	greeting, _ := table.Lookup("greeting")
	assert.Equal(t, []string{"hello", "hey"}, greeting.Questions)
	assert.Equal(t, "Hi there!", *greeting.Answer)
}

func TestValidateIntents(t *testing.T) {
	path := useTempRegistry(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	require.NoError(t, os.WriteFile(path, []byte(`{"a": {"question": ["hello"], "answer": "1"}}`), 0o644))
	assert.NoError(t, validateIntents())

	require.NoError(t, os.WriteFile(path, []byte(`{"a": {"question": ["hello"], "answer": "1"}, "b": {"question": [" Hello "], "answer": "2"}}`), 0o644))
	err := validateIntents()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `question " Hello " in b shadowed by a`)

	// "hello!" keeps its punctuation as a key, so no normalized question equals it.
	require.NoError(t, os.WriteFile(path, []byte(`{"a": {"question": ["hello!"], "answer": "1"}, "b": {"question": ["hello"], "answer": "2"}}`), 0o644))
	err = validateIntents()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `question "hello!" in a unreachable by exact match`)
	assert.NotContains(t, err.Error(), "shadowed")

	table, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	m := assistant.ExactMatch(assistant.Normalize("hello!"), table)
	require.True(t, m.Matched())
	assert.Equal(t, "b", m.Intent.Name)

	require.NoError(t, os.WriteFile(path, []byte(`{"a": {"question": ["hello"]}}`), 0o644))
	err = validateIntents()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing answer")

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	assert.Error(t, validateIntents())
}

func TestMatchQuestion(t *testing.T) {
	useTempRegistry(t)
	require.NoError(t, addIntent("greeting", []string{"hello"}, "Hello!"))

	assert.NoError(t, matchQuestion("helo", 85))
	assert.NoError(t, listIntents())
}
