package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBindAddress, cfg.Server.BindAddress)
	assert.Equal(t, DefaultCLIBinary, cfg.Arduino.Binary)
	assert.Equal(t, DefaultFQBN, cfg.Arduino.FQBN)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  bind_address: "127.0.0.1:9000"
sketchbook:
  dir: /tmp/sketchbook
arduino:
  fqbn: arduino:avr:uno
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.BindAddress)
	assert.Equal(t, "/tmp/sketchbook", cfg.Sketchbook.Dir)
	assert.Equal(t, "arduino:avr:uno", cfg.Arduino.FQBN)
	// Unset fields keep their defaults
	assert.Equal(t, DefaultCLIBinary, cfg.Arduino.Binary)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromPath_Missing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKETCHD_BIND_ADDRESS", "127.0.0.1:7777")
	t.Setenv("SKETCHD_SKETCHBOOK_DIR", "/srv/sketches")
	t.Setenv("SKETCHD_FQBN", "esp32:esp32:esp32")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "127.0.0.1:7777", cfg.Server.BindAddress)
	assert.Equal(t, "/srv/sketches", cfg.Sketchbook.Dir)
	assert.Equal(t, "esp32:esp32:esp32", cfg.Arduino.FQBN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty bind address", func(c *Config) { c.Server.BindAddress = " " }, true},
		{"empty binary", func(c *Config) { c.Arduino.Binary = "" }, true},
		{"empty fqbn", func(c *Config) { c.Arduino.FQBN = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty log level ok", func(c *Config) { c.Logging.Level = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSketchbookDir_Override(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sketchbook.Dir = "/data/arduino"

	dir, err := cfg.SketchbookDir()
	require.NoError(t, err)
	assert.Equal(t, "/data/arduino", dir)
}

func TestDefaultSketchbookDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	darwin, err := defaultSketchbookDir("darwin")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Documents", "Arduino"), darwin)

	linux, err := defaultSketchbookDir("linux")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Arduino"), linux)

	_, err = defaultSketchbookDir("plan9")
	assert.Error(t, err)
}
