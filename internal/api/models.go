// internal/api/models.go
package api

import "voice-assistant/internal/assistant/gemini"

const (
	BannerMessage      = "✅ Enhanced Voice Assistant API is running"
	IntentsDescription = "Available predefined responses that can be customized for different projects"
)

// AskQuery is the /ask query string. Lengths are counted in characters.
type AskQuery struct {
	Question string `form:"question" binding:"required,min=1,max=500"`
}

type IntentsQuery struct {
	Filter string `form:"filter" binding:"max=100"`
}

type IntentsResponse struct {
	Intents     []string `json:"intents"`
	Count       int      `json:"count"`
	Description string   `json:"description"`
}

type IntentResponse struct {
	Intent       string   `json:"intent"`
	Questions    []string `json:"questions"`
	Answer       string   `json:"answer"`
	Customizable bool     `json:"customizable"`
}

type HealthResponse struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Version   string   `json:"version"`
	Features  []string `json:"features"`
}

type HomeResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type DebugResponse struct {
	Status string `json:"status"`
	*gemini.DebugReport
	ResponsesLoaded int      `json:"responses_loaded"`
	SampleIntents   []string `json:"sample_intents"`
	FallbackMessage string   `json:"fallback_message"`
}
