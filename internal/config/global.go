// Package config loads ctfread settings from ~/.ctfread/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig holds ctfread settings.
type GlobalConfig struct {
	Output OutputConfig `yaml:"output"`
	Index  IndexConfig  `yaml:"index"`
	Debug  DebugConfig  `yaml:"debug"`
}

// OutputConfig controls how dump prints events.
type OutputConfig struct {
	// Format is one of text, json, msgpack.
	Format string `yaml:"format"`
	// Scopes lists the event scopes included in each record.
	Scopes []string `yaml:"scopes"`
}

// IndexConfig locates the SQLite event index.
type IndexConfig struct {
	Path      string `yaml:"path"`
	BatchSize int    `yaml:"batch_size"`
}

// DebugConfig holds debug log settings.
type DebugConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// Output formats accepted by dump.
var Formats = []string{"text", "json", "msgpack"}

// DefaultGlobalConfig returns the default configuration.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Output: OutputConfig{
			Format: "text",
			Scopes: []string{"event_fields"},
		},
		Index: IndexConfig{
			Path:      filepath.Join(GlobalConfigDir(), "index.db"),
			BatchSize: 500,
		},
		Debug: DebugConfig{
			RetentionDays: 14,
		},
	}
}

// LoadGlobal reads ~/.ctfread/config.yaml and applies environment overrides.
// A missing or malformed file leaves the defaults in place.
func LoadGlobal() (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	configPath := filepath.Join(GlobalConfigDir(), "config.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		_ = yaml.Unmarshal(data, cfg) // Ignore unmarshal errors, use defaults
	}

	if format := os.Getenv("CTFREAD_FORMAT"); format != "" {
		cfg.Output.Format = format
	}
	if path := os.Getenv("CTFREAD_INDEX"); path != "" {
		cfg.Index.Path = path
	}
	if batch := os.Getenv("CTFREAD_BATCH_SIZE"); batch != "" {
		if n, err := strconv.Atoi(batch); err == nil {
			cfg.Index.BatchSize = n
		}
	}

	cfg.Index.Path = expandHome(cfg.Index.Path)
	if cfg.Index.BatchSize <= 0 {
		cfg.Index.BatchSize = DefaultGlobalConfig().Index.BatchSize
	}
	return cfg, nil
}

// Validate reports settings that commands cannot use.
func (c *GlobalConfig) Validate() error {
	for _, f := range Formats {
		if c.Output.Format == f {
			return nil
		}
	}
	return fmt.Errorf("output.format %q: must be one of %s", c.Output.Format, strings.Join(Formats, ", "))
}

// GlobalConfigDir returns the path to ~/.ctfread.
func GlobalConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".ctfread")
	}
	return filepath.Join(homeDir, ".ctfread")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
