// internal/assistant/gemini/models.go
package gemini

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Text string `json:"text"`
}

// DebugReport is the result of the diagnostic probe.
type DebugReport struct {
	APIKeyConfigured bool    `json:"api_key_configured"`
	APIKeyLength     int     `json:"api_key_length"`
	APIURL           string  `json:"api_url"`
	TestQuestion     string  `json:"test_question"`
	TestResponse     *string `json:"test_response"`
	Error            string  `json:"error,omitempty"`
}

// generateContent wire types.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}
