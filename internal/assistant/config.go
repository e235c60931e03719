package assistant

import (
	"time"

	"voice-assistant/internal/common/config"
)

type Config struct {
	FuzzyThreshold int
	Location       *time.Location
}

func LoadConfig() *Config {
	return &Config{
		FuzzyThreshold: DefaultFuzzyThreshold,
		Location:       IndiaStandardTime,
	}
}

// FromAppConfig maps the matching settings. Time answers are always
// given in India Standard Time.
func FromAppConfig(c *config.Config) *Config {
	return &Config{
		FuzzyThreshold: c.Matching.FuzzyThreshold,
		Location:       IndiaStandardTime,
	}
}
