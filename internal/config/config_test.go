package config

import (
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.DatabasePath != "mars_weather.db" {
		t.Errorf("Default DatabasePath = %q, want mars_weather.db", cfg.DatabasePath)
	}
	if cfg.Insight.BaseURL != "https://api.nasa.gov" {
		t.Errorf("Default Insight.BaseURL = %q", cfg.Insight.BaseURL)
	}
	if cfg.Insight.APIKey != "DEMO_KEY" {
		t.Errorf("Default Insight.APIKey = %q, want DEMO_KEY", cfg.Insight.APIKey)
	}
	if cfg.Assistant.Model != "gemini-2.0-flash" {
		t.Errorf("Default Assistant.Model = %q", cfg.Assistant.Model)
	}
	if cfg.Assistant.Temperature != 0.1 {
		t.Errorf("Default Assistant.Temperature = %v, want 0.1", cfg.Assistant.Temperature)
	}
	if cfg.Assistant.MaxOutputTokens != 400 {
		t.Errorf("Default Assistant.MaxOutputTokens = %d, want 400", cfg.Assistant.MaxOutputTokens)
	}
	if cfg.Assistant.MaxContextRows != 20 {
		t.Errorf("Default Assistant.MaxContextRows = %d, want 20", cfg.Assistant.MaxContextRows)
	}
	if cfg.Assistant.Timeout != 60*time.Second {
		t.Errorf("Default Assistant.Timeout = %v, want 60s", cfg.Assistant.Timeout)
	}
	if cfg.Assistant.APIKey != "" {
		t.Error("Assistant.APIKey must not have a default")
	}
}

func TestNewConfigIsValid(t *testing.T) {
	if err := Validate(NewConfig()); err != nil {
		t.Fatalf("defaults should validate, got: %v", err)
	}
}
