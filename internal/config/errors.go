package config

import "fmt"

// PermissionError represents a permission-related config error
type PermissionError struct {
	Path string
	Op   string // "read"
	Fix  string // Suggested fix command
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied (cannot %s config): %s\n💡 Fix: %s", e.Op, e.Path, e.Fix)
}

// ConfigNotFoundError represents missing config file
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s\n\n💡 %s", e.Path, e.Hint)
}

// InvalidConfigError represents malformed or out-of-range configuration
type InvalidConfigError struct {
	Path    string
	Message string
	Hint    string
}

func (e *InvalidConfigError) Error() string {
	path := e.Path
	if path == "" {
		path = "(defaults and environment)"
	}
	msg := fmt.Sprintf("invalid config: %s\n", path)
	if e.Message != "" {
		msg += e.Message + "\n"
	}
	if e.Hint != "" {
		msg += "💡 " + e.Hint
	}
	return msg
}
