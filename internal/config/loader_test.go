package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		ConfigPathEnv, "MARSWEATHER_DB", "NASA_API_URL", "NASA_API_KEY",
		"GEMINI_API_URL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"MARSWEATHER_MAX_ROWS", "MARSWEATHER_INTERVAL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabasePath != DefaultDatabasePath {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, DefaultDatabasePath)
	}
	if cfg.Schedule.Interval != time.Hour {
		t.Errorf("Schedule.Interval = %v, want 1h", cfg.Schedule.Interval)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "marsweather.yaml", `
database_path: /tmp/mars.db
insight:
  api_key: file-key
  timeout: 5s
assistant:
  model: gemini-1.5-pro
  temperature: 0
  max_context_rows: 5
  language: Spanish
schedule:
  interval: 30m
log:
  format: JSON
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabasePath != "/tmp/mars.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.Insight.APIKey != "file-key" {
		t.Errorf("Insight.APIKey = %q, want file-key", cfg.Insight.APIKey)
	}
	if cfg.Insight.Timeout != 5*time.Second {
		t.Errorf("Insight.Timeout = %v, want 5s", cfg.Insight.Timeout)
	}
	if cfg.Assistant.Model != "gemini-1.5-pro" {
		t.Errorf("Assistant.Model = %q", cfg.Assistant.Model)
	}
	if cfg.Assistant.Temperature != 0 {
		t.Errorf("explicit temperature 0 should be kept, got %v", cfg.Assistant.Temperature)
	}
	if cfg.Assistant.MaxContextRows != 5 {
		t.Errorf("Assistant.MaxContextRows = %d, want 5", cfg.Assistant.MaxContextRows)
	}
	if cfg.Assistant.Language != "Spanish" {
		t.Errorf("Assistant.Language = %q", cfg.Assistant.Language)
	}
	if cfg.Schedule.Interval != 30*time.Minute {
		t.Errorf("Schedule.Interval = %v, want 30m", cfg.Schedule.Interval)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	// Untouched fields keep defaults.
	if cfg.Assistant.MaxOutputTokens != DefaultMaxOutputTokens {
		t.Errorf("Assistant.MaxOutputTokens = %d, want default", cfg.Assistant.MaxOutputTokens)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "marsweather.yaml", "insight:\n  api_key: file-key\n")
	t.Setenv(ConfigPathEnv, path)
	t.Setenv("NASA_API_KEY", "env-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("MARSWEATHER_DB", "env.db")
	t.Setenv("MARSWEATHER_MAX_ROWS", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Insight.APIKey != "env-key" {
		t.Errorf("Insight.APIKey = %q, want env-key", cfg.Insight.APIKey)
	}
	if cfg.Assistant.APIKey != "gemini-key" {
		t.Errorf("Assistant.APIKey = %q", cfg.Assistant.APIKey)
	}
	if cfg.Assistant.Model != "gemini-2.5-flash" {
		t.Errorf("Assistant.Model = %q", cfg.Assistant.Model)
	}
	if cfg.DatabasePath != "env.db" {
		t.Errorf("DatabasePath = %q, want env.db", cfg.DatabasePath)
	}
	if cfg.Assistant.MaxContextRows != 7 {
		t.Errorf("MaxContextRows = %d, want 7", cfg.Assistant.MaxContextRows)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("file not found", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		var nf *ConfigNotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected ConfigNotFoundError, got %v", err)
		}
		if !strings.Contains(err.Error(), "config file not found") {
			t.Errorf("error should mention file not found, got: %v", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, "bad.yaml", "insight: [unterminated")
		_, err := Load(path)
		var ic *InvalidConfigError
		if !errors.As(err, &ic) {
			t.Fatalf("expected InvalidConfigError, got %v", err)
		}
		if !strings.Contains(err.Error(), "YAML parse error") {
			t.Errorf("error should mention YAML, got: %v", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, "bad.yaml", "assistant:\n  timeout: soon\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "assistant.timeout") {
			t.Fatalf("expected duration error naming the field, got %v", err)
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, "bad.yaml", "insight:\n  base_url: not a url\nassistant:\n  max_context_rows: 0\n")
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected validation error")
		}
		for _, want := range []string{"Insight.BaseURL", "Assistant.MaxContextRows"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error should mention %s, got: %v", want, err)
			}
		}
	})
}
