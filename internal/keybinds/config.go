package keybinds

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration.
// Each section maps a key to an action name.
type Config struct {
	Version string                       `json:"version"`
	Global  map[string]string            `json:"global,omitempty"`
	Normal  map[string]string            `json:"normal,omitempty"`
	Editor  map[string]string            `json:"editor,omitempty"`
	Overlay map[string]string            `json:"overlay,omitempty"`
	Picker  map[string]string            `json:"picker,omitempty"`
	History map[string]string            `json:"history,omitempty"`
	Help    map[string]string            `json:"help,omitempty"`
	Modal   map[string]string            `json:"modal,omitempty"`
	Custom  map[string]map[string]string `json:"custom,omitempty"`
}

// sections maps each context to its config section
func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextNormal:  c.Normal,
		ContextEditor:  c.Editor,
		ContextOverlay: c.Overlay,
		ContextPicker:  c.Picker,
		ContextHistory: c.History,
		ContextHelp:    c.Help,
		ContextModal:   c.Modal,
	}
}

// LoadConfig loads keybinding configuration from a JSON file.
// Comments and trailing commas are accepted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses JSONC keybinding configuration
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}
	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry
// User bindings override default bindings
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for key, actionStr := range bindings {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("%s: %w", context, err)
			}
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("%s: key %q: %w", context, key, err)
			}
			registry.Register(context, key, Action(actionStr))
		}
	}

	for contextName, bindings := range config.Custom {
		context := Context(contextName)
		for key, actionStr := range bindings {
			registry.Register(context, key, Action(actionStr))
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults exports the default bindings of the main contexts as a config
func ExportDefaults() *Config {
	r := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	export := func(ctx Context) map[string]string {
		m := make(map[string]string)
		for key, action := range r.bindings[ctx] {
			m[key] = string(action)
		}
		return m
	}

	config.Global = export(ContextGlobal)
	config.Normal = export(ContextNormal)
	config.Editor = export(ContextEditor)
	config.Overlay = export(ContextOverlay)
	config.Picker = export(ContextPicker)
	config.History = export(ContextHistory)
	config.Help = export(ContextHelp)
	config.Modal = export(ContextModal)
	return config
}

// CreateExampleConfig writes the default bindings to path so users can edit them
func CreateExampleConfig(path string) error {
	return SaveConfig(ExportDefaults(), path)
}
