package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the environment variable holding the YAML config path.
const ConfigPathEnv = "MARSWEATHER_CONFIG"

type fileConfig struct {
	DatabasePath string `yaml:"database_path"`

	Insight struct {
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		Timeout         string  `yaml:"timeout"`
		BreakerFailures *uint32 `yaml:"breaker_failures"`
		BreakerTimeout  string  `yaml:"breaker_timeout"`
	} `yaml:"insight"`

	Assistant struct {
		BaseURL           string   `yaml:"base_url"`
		APIKey            string   `yaml:"api_key"`
		Model             string   `yaml:"model"`
		Temperature       *float64 `yaml:"temperature"`
		MaxOutputTokens   *int     `yaml:"max_output_tokens"`
		Timeout           string   `yaml:"timeout"`
		MaxContextRows    *int     `yaml:"max_context_rows"`
		Language          string   `yaml:"language"`
		RequestsPerMinute *int     `yaml:"requests_per_minute"`
	} `yaml:"assistant"`

	Schedule struct {
		Interval    string `yaml:"interval"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"schedule"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load resolves configuration from defaults, the YAML file at path (or
// $MARSWEATHER_CONFIG when path is empty), .env and the environment.
// A missing file is only an error when a path was given.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &InvalidConfigError{
			Path:    ".env",
			Message: err.Error(),
			Hint:    "Fix or remove the .env file",
		}
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	cfg := NewConfig()
	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := fc.apply(cfg); err != nil {
			return nil, &InvalidConfigError{Path: path, Message: err.Error(), Hint: "Durations use Go syntax, e.g. 30s or 1h"}
		}
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, &InvalidConfigError{Path: path, Message: err.Error(), Hint: "Check the values above and try again"}
	}
	return cfg, nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Create the file or drop --config to run with defaults",
			}
		}
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path: path,
				Op:   "read",
				Fix:  getReadPermissionFix(path),
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("YAML parse error: %v", err),
		}
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	setString(&cfg.DatabasePath, fc.DatabasePath)

	setString(&cfg.Insight.BaseURL, fc.Insight.BaseURL)
	setString(&cfg.Insight.APIKey, fc.Insight.APIKey)
	if err := setDuration(&cfg.Insight.Timeout, "insight.timeout", fc.Insight.Timeout); err != nil {
		return err
	}
	if fc.Insight.BreakerFailures != nil {
		cfg.Insight.BreakerFailures = *fc.Insight.BreakerFailures
	}
	if err := setDuration(&cfg.Insight.BreakerTimeout, "insight.breaker_timeout", fc.Insight.BreakerTimeout); err != nil {
		return err
	}

	a := fc.Assistant
	setString(&cfg.Assistant.BaseURL, a.BaseURL)
	setString(&cfg.Assistant.APIKey, a.APIKey)
	setString(&cfg.Assistant.Model, a.Model)
	setString(&cfg.Assistant.Language, a.Language)
	if a.Temperature != nil {
		cfg.Assistant.Temperature = *a.Temperature
	}
	if a.MaxOutputTokens != nil {
		cfg.Assistant.MaxOutputTokens = *a.MaxOutputTokens
	}
	if a.MaxContextRows != nil {
		cfg.Assistant.MaxContextRows = *a.MaxContextRows
	}
	if a.RequestsPerMinute != nil {
		cfg.Assistant.RequestsPerMinute = *a.RequestsPerMinute
	}
	if err := setDuration(&cfg.Assistant.Timeout, "assistant.timeout", a.Timeout); err != nil {
		return err
	}

	if err := setDuration(&cfg.Schedule.Interval, "schedule.interval", fc.Schedule.Interval); err != nil {
		return err
	}
	setString(&cfg.Schedule.MetricsAddr, fc.Schedule.MetricsAddr)

	setString(&cfg.Log.Level, fc.Log.Level)
	setString(&cfg.Log.Format, strings.ToLower(fc.Log.Format))
	return nil
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.DatabasePath, os.Getenv("MARSWEATHER_DB"))
	setString(&cfg.Insight.BaseURL, os.Getenv("NASA_API_URL"))
	setString(&cfg.Insight.APIKey, os.Getenv("NASA_API_KEY"))
	setString(&cfg.Assistant.BaseURL, os.Getenv("GEMINI_API_URL"))
	setString(&cfg.Assistant.APIKey, os.Getenv("GEMINI_API_KEY"))
	setString(&cfg.Assistant.Model, os.Getenv("GEMINI_MODEL"))
	if v := strings.TrimSpace(os.Getenv("MARSWEATHER_MAX_ROWS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.MaxContextRows = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MARSWEATHER_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Schedule.Interval = d
		}
	}
	setString(&cfg.Log.Level, os.Getenv("LOG_LEVEL"))
	setString(&cfg.Log.Format, strings.ToLower(os.Getenv("LOG_FORMAT")))
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// setDuration parses s into dst; an empty string leaves the default in place.
func setDuration(dst *time.Duration, field, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

// getReadPermissionFix returns platform-specific fix command
func getReadPermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	default:
		return fmt.Sprintf("Run: chmod 644 %s", path)
	}
}
