// internal/assistant/gemini/config.go
package gemini

import (
	"time"

	"voice-assistant/internal/common/config"
)

const DefaultPersona = "You are Aina, a helpful voice assistant. Answer this question naturally and conversationally: "

type Config struct {
	BaseURL         string
	APIKey          string
	Model           string
	Timeout         time.Duration
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
	Persona         string
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:         "https://generativelanguage.googleapis.com/v1",
		Model:           "gemini-1.5-flash",
		Timeout:         10 * time.Second,
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 200,
		Persona:         DefaultPersona,
	}
}

// FromAppConfig maps the gemini section of the service configuration.
func FromAppConfig(c config.GeminiConfig) *Config {
	cfg := &Config{
		BaseURL:         c.BaseURL,
		APIKey:          c.APIKey,
		Model:           c.Model,
		Timeout:         config.GetDuration(c.Timeout),
		Temperature:     c.Temperature,
		TopK:            c.TopK,
		TopP:            c.TopP,
		MaxOutputTokens: c.MaxOutputTokens,
		Persona:         c.Persona,
	}
	if cfg.Persona == "" {
		cfg.Persona = DefaultPersona
	}
	return cfg
}
