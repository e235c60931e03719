// internal/assistant/models.go
package assistant

import (
	"time"

	"voice-assistant/pkg/registry"
)

type AnswerType string

const (
	TypePredefined  AnswerType = "predefined"
	TypeTimeIndia   AnswerType = "time_india"
	TypeAIGenerated AnswerType = "ai_generated"
	TypeFallback    AnswerType = "fallback"
	TypeError       AnswerType = "error"
)

type Source string

const (
	SourcePredefined Source = "predefined"
	SourceGemini     Source = "gemini"
	SourceSystem     Source = "system"
)

const (
	FallbackMessage       = "I'm sorry, I'm having trouble understanding that right now. Could you try asking in a different way?"
	TechnicalErrorMessage = "I'm experiencing some technical difficulties. Please try again in a moment."
	MalformedEntryMessage = "I encountered an issue processing that request."
)

// Answer is the envelope returned for every question.
type Answer struct {
	Answer string     `json:"answer"`
	Type   AnswerType `json:"type"`
	Source Source     `json:"source,omitempty"`
	Intent string     `json:"intent,omitempty"`
}

type MatchMethod string

const (
	MethodExact MatchMethod = "exact"
	MethodFuzzy MatchMethod = "fuzzy"
	MethodNone  MatchMethod = "none"
)

// MatchResult is the outcome of the predefined-intent lookup.
type MatchResult struct {
	Intent *registry.Intent
	Score  int
	Method MatchMethod
}

// Matched reports whether an intent was selected.
func (m MatchResult) Matched() bool {
	return m.Intent != nil && m.Method != MethodNone
}

type State string

const (
	StateStart       State = "START"
	StateExactCheck  State = "EXACT_CHECK"
	StateFuzzyCheck  State = "FUZZY_CHECK"
	StateRemoteCheck State = "REMOTE_CHECK"
	StateRespond     State = "RESPOND"
)

// Resolution is an Answer plus how it was reached.
type Resolution struct {
	Answer   Answer
	Match    MatchResult
	States   []State
	Method   string
	Duration time.Duration
}
