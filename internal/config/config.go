/*
Package config handles loading marsweather configuration.

Configuration is resolved once at startup and passed explicitly to every
component. Sources, lowest precedence first:

  - built-in defaults
  - an optional YAML file (--config flag or MARSWEATHER_CONFIG)
  - a .env file in the working directory, if present
  - environment variables

Schema:

	database_path: mars_weather.db
	insight:
	  base_url: https://api.nasa.gov
	  api_key: DEMO_KEY
	  timeout: 30s
	  breaker_failures: 5
	  breaker_timeout: 2m
	assistant:
	  base_url: https://generativelanguage.googleapis.com/v1beta
	  model: gemini-2.0-flash
	  temperature: 0.1
	  max_output_tokens: 400
	  timeout: 60s
	  max_context_rows: 20
	  language: English
	  requests_per_minute: 15
	schedule:
	  interval: 1h
	  metrics_addr: ""
	log:
	  level: info
	  format: console
*/
package config

import "time"

// Defaults.
const (
	DefaultDatabasePath     = "mars_weather.db"
	DefaultInsightURL       = "https://api.nasa.gov"
	DefaultInsightAPIKey    = "DEMO_KEY"
	DefaultAssistantURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultAssistantModel   = "gemini-2.0-flash"
	DefaultLanguage         = "English"
	DefaultMaxContextRows   = 20
	DefaultMaxOutputTokens  = 400
	DefaultTemperature      = 0.1
	DefaultRequestsPerMin   = 15
	DefaultBreakerFailures  = 5
	DefaultInsightTimeout   = 30 * time.Second
	DefaultAssistantTimeout = 60 * time.Second
	DefaultBreakerTimeout   = 2 * time.Minute
	DefaultScheduleInterval = time.Hour
)

// Config represents the resolved configuration.
type Config struct {
	// DatabasePath is the SQLite file holding weather_data and api_metadata.
	DatabasePath string `validate:"required"`

	Insight   InsightConfig
	Assistant AssistantConfig
	Schedule  ScheduleConfig
	Log       LogConfig
}

// InsightConfig configures the NASA InSight weather fetcher.
type InsightConfig struct {
	BaseURL string        `validate:"required,url"`
	APIKey  string        `validate:"required"`
	Timeout time.Duration `validate:"gt=0"`

	// BreakerFailures is the number of consecutive failures that opens the circuit.
	BreakerFailures uint32 `validate:"gt=0"`

	// BreakerTimeout is how long the circuit stays open before a trial request.
	BreakerTimeout time.Duration `validate:"gt=0"`
}

// AssistantConfig configures the language-model client.
type AssistantConfig struct {
	BaseURL string `validate:"required,url"`

	// APIKey is only required by commands that ask questions.
	APIKey string

	Model           string        `validate:"required"`
	Temperature     float64       `validate:"gte=0,lte=2"`
	MaxOutputTokens int           `validate:"gt=0"`
	Timeout         time.Duration `validate:"gt=0"`
	MaxContextRows  int           `validate:"gt=0"`
	Language        string        `validate:"required"`

	// RequestsPerMinute spaces out questions client-side; 0 disables the limiter.
	RequestsPerMinute int `validate:"gte=0"`
}

// ScheduleConfig configures periodic ingestion.
type ScheduleConfig struct {
	Interval time.Duration `validate:"gt=0"`

	// MetricsAddr, when set, serves /metrics and /health while scheduling.
	MetricsAddr string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string `validate:"oneof=json console"`
}

// NewConfig returns a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		DatabasePath: DefaultDatabasePath,
		Insight: InsightConfig{
			BaseURL:         DefaultInsightURL,
			APIKey:          DefaultInsightAPIKey,
			Timeout:         DefaultInsightTimeout,
			BreakerFailures: DefaultBreakerFailures,
			BreakerTimeout:  DefaultBreakerTimeout,
		},
		Assistant: AssistantConfig{
			BaseURL:           DefaultAssistantURL,
			Model:             DefaultAssistantModel,
			Temperature:       DefaultTemperature,
			MaxOutputTokens:   DefaultMaxOutputTokens,
			Timeout:           DefaultAssistantTimeout,
			MaxContextRows:    DefaultMaxContextRows,
			Language:          DefaultLanguage,
			RequestsPerMinute: DefaultRequestsPerMin,
		},
		Schedule: ScheduleConfig{
			Interval: DefaultScheduleInterval,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
