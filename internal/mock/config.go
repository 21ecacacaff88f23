package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads a mock configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

var knownPaths = map[string]bool{
	"/ssa": true, "/cfsm": true, "/migo": true, "/gong": true, "/synthesis": true, "/load": true,
}

// validateConfig validates the mock configuration
func validateConfig(config *Config) error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.Latency < 0 {
		return fmt.Errorf("latency must not be negative")
	}

	for i, route := range config.Routes {
		if route.Path == "" {
			return fmt.Errorf("route %d: path is required", i)
		}
		if !knownPaths[route.Path] {
			return fmt.Errorf("route %d: unknown endpoint %s", i, route.Path)
		}
		if route.Status != 0 && (route.Status < 100 || route.Status > 599) {
			return fmt.Errorf("route %d: invalid status %d", i, route.Status)
		}
	}

	return nil
}
