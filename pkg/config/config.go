package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBindAddress is the local-only listen address.
	DefaultBindAddress = "127.0.0.1:8180"

	// DefaultFQBN pins the target board for compile and upload.
	DefaultFQBN = "arduino:avr:nano:cpu=atmega328old"

	// DefaultCLIBinary is the external tool resolved from PATH.
	DefaultCLIBinary = "arduino-cli"
)

// Config represents the complete sketchd configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Sketchbook SketchbookConfig `yaml:"sketchbook"`
	Arduino    ArduinoConfig    `yaml:"arduino"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	BindAddress    string   `yaml:"bind_address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SketchbookConfig controls the workspace root
type SketchbookConfig struct {
	// Dir overrides the platform default sketchbook location
	Dir string `yaml:"dir"`
}

// ArduinoConfig controls the external tool invocation
type ArduinoConfig struct {
	Binary string `yaml:"binary"`
	FQBN   string `yaml:"fqbn"`
}

// LoggingConfig controls structured log output
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the baseline configuration before file and env merges
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress:    DefaultBindAddress,
			AllowedOrigins: []string{"http://localhost", "http://127.0.0.1"},
		},
		Arduino: ArduinoConfig{
			Binary: DefaultCLIBinary,
			FQBN:   DefaultFQBN,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from default locations with proper precedence
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".sketchd", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	projectConfigPath := filepath.Join(".", ".sketchd", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SKETCHD_BIND_ADDRESS"); v != "" {
		cfg.Server.BindAddress = v
	}
	if v := os.Getenv("SKETCHD_SKETCHBOOK_DIR"); v != "" {
		cfg.Sketchbook.Dir = v
	}
	if v := os.Getenv("SKETCHD_ARDUINO_CLI"); v != "" {
		cfg.Arduino.Binary = v
	}
	if v := os.Getenv("SKETCHD_FQBN"); v != "" {
		cfg.Arduino.FQBN = v
	}
	if v := os.Getenv("SKETCHD_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("SKETCHD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for basic sanity
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BindAddress) == "" {
		return fmt.Errorf("server.bind_address must not be empty")
	}
	if strings.TrimSpace(c.Arduino.Binary) == "" {
		return fmt.Errorf("arduino.binary must not be empty")
	}
	if strings.TrimSpace(c.Arduino.FQBN) == "" {
		return fmt.Errorf("arduino.fqbn must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug|info|warn|error", c.Logging.Level)
	}
	return nil
}

// SketchbookDir resolves the workspace root, falling back to the platform
// default when no override is configured.
func (c *Config) SketchbookDir() (string, error) {
	if dir := strings.TrimSpace(c.Sketchbook.Dir); dir != "" {
		return dir, nil
	}
	return defaultSketchbookDir(runtime.GOOS)
}

// LogDir resolves the structured log directory, defaulting under the user
// home when not configured.
func (c *Config) LogDir() string {
	if dir := strings.TrimSpace(c.Logging.Dir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".sketchd", "logs")
	}
	return filepath.Join(home, ".sketchd", "logs")
}

// defaultSketchbookDir mirrors the Arduino IDE's per-platform sketchbook
// location.
func defaultSketchbookDir(goos string) (string, error) {
	switch goos {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, "Documents", "Arduino"), nil
	case "windows":
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", fmt.Errorf("USERPROFILE is not set")
		}
		return filepath.Join(profile, "Documents", "Arduino"), nil
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, "Arduino"), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
}
