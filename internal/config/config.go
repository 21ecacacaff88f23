package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/workbench/internal/executor"
	"github.com/studiowebux/workbench/internal/logging"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// LocalConfigFile overrides the global config when present in the working directory
	LocalConfigFile = ".workbench.yaml"

	// DefaultServer is the address of a locally running analysis server
	DefaultServer = "http://127.0.0.1:6060"
)

var (
	// ConfigDir is the global configuration directory (~/.workbench)
	ConfigDir string

	// ConfigFile is the global settings file
	ConfigFile string

	// KeybindsFile holds user key binding overrides
	KeybindsFile string

	// DatabasePath is the SQLite database file for analysis history
	DatabasePath string

	// SessionFile is the session state file
	SessionFile string

	// LogFile receives TUI logs
	LogFile string

	// ExportDir is where graphs and synthesis views are saved
	ExportDir string
)

// Config holds workbench settings
type Config struct {
	Server         string                    `yaml:"server"`
	Timeout        time.Duration             `yaml:"timeout"`
	Ordering       string                    `yaml:"ordering"`
	LogLevel       string                    `yaml:"logLevel"`
	HistoryEnabled bool                      `yaml:"historyEnabled"`
	MetricsAddr    string                    `yaml:"metricsAddr,omitempty"`
	Examples       []string                  `yaml:"examples,omitempty"`
	Channels       []string                  `yaml:"channels,omitempty"`
	DefaultChannel string                    `yaml:"defaultChannel"`
	Endpoints      map[string]EndpointConfig `yaml:"endpoints,omitempty"`
	TLS            *executor.TLSConfig       `yaml:"tls,omitempty"`
}

// EndpointConfig overrides the path, method or record fields of one action
type EndpointConfig struct {
	Path     string `yaml:"path,omitempty"`
	Method   string `yaml:"method,omitempty"`
	Result   string `yaml:"result,omitempty"`
	Time     string `yaml:"time,omitempty"`
	Global   string `yaml:"global,omitempty"`
	Machines string `yaml:"machines,omitempty"`
	Graph    string `yaml:"graph,omitempty"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Server:         DefaultServer,
		Timeout:        executor.DefaultTimeout,
		Ordering:       string(workbench.OrderingDropStale),
		LogLevel:       "info",
		HistoryEnabled: true,
		Channels:       []string{"1", "2", "3", "4", "5"},
		DefaultChannel: "1",
	}
}

// Initialize sets up the configuration directory under the user's home
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".workbench"))
}

// InitializeAt sets the global paths below dir and writes a default config.yaml if missing
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	DatabasePath = filepath.Join(ConfigDir, "workbench.db")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	LogFile = filepath.Join(ConfigDir, "workbench.log")
	ExportDir = filepath.Join(ConfigDir, "exports")

	for _, d := range []string{ConfigDir, ExportDir} {
		if err := os.MkdirAll(d, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		if err := Save(Default(), ConfigFile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

// GetConfigFilePath returns the config file path (local or global)
func GetConfigFilePath() string {
	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}
	return ConfigFile
}

// LocalConfigExists checks if there's a local .workbench.yaml
func LocalConfigExists() bool {
	_, err := os.Stat(LocalConfigFile)
	return err == nil
}

// Load reads settings from path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	header := []byte("# Analysis workbench settings\n")
	if err := os.WriteFile(path, append(header, data...), FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if _, err := workbench.ParseOrdering(c.Ordering); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for name := range c.Endpoints {
		if _, ok := types.ParseAction(name); !ok {
			return fmt.Errorf("endpoints: unknown action %q", name)
		}
	}
	return nil
}

// OrderingMode returns the parsed completion ordering
func (c *Config) OrderingMode() workbench.Ordering {
	o, err := workbench.ParseOrdering(c.Ordering)
	if err != nil {
		return workbench.OrderingDropStale
	}
	return o
}

// EndpointTable converts the endpoint overrides into the table the workbench consumes
func (c *Config) EndpointTable() map[types.Action]types.Endpoint {
	out := make(map[types.Action]types.Endpoint, len(c.Endpoints))
	for name, ec := range c.Endpoints {
		action, ok := types.ParseAction(name)
		if !ok {
			continue
		}
		out[action] = types.Endpoint{
			Path:   ec.Path,
			Method: ec.Method,
			Fields: types.FieldMap{
				Result:   ec.Result,
				Time:     ec.Time,
				Global:   ec.Global,
				Machines: ec.Machines,
				Graph:    ec.Graph,
			},
		}
	}
	return out
}

// PickChannel returns DefaultChannel when it is listed, otherwise the first channel
func (c *Config) PickChannel(channels []string) string {
	for _, ch := range channels {
		if ch == c.DefaultChannel {
			return ch
		}
	}
	if len(channels) > 0 {
		return channels[0]
	}
	return c.DefaultChannel
}
