// Package config provides configuration types and defaults for rawline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/rawline/internal/instr"
	"github.com/zjrosen/rawline/internal/log"
	"github.com/zjrosen/rawline/internal/parser"
)

// Config holds all rawline configuration.
type Config struct {
	Mode     string        `mapstructure:"mode"`     // "emacs" (default) or "vi"
	Encoding string        `mapstructure:"encoding"` // IANA name, e.g. "utf-8", "iso-8859-1"
	Prompt   string        `mapstructure:"prompt"`
	History  HistoryConfig `mapstructure:"history"`
	Log      LogConfig     `mapstructure:"log"`
	Tracing  TracingConfig `mapstructure:"tracing"`
}

// HistoryConfig controls the in-memory history list and its SQLite store.
type HistoryConfig struct {
	// Enabled persists entered lines to Path and reloads them at startup.
	Enabled bool `mapstructure:"enabled"`

	// Path is the SQLite database file.
	// Default: ~/.config/rawline/history.db
	Path string `mapstructure:"path"`

	// MaxEntries bounds the in-memory list. 0 means unbounded.
	MaxEntries int `mapstructure:"max_entries"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Path  string `mapstructure:"path"`  // Empty disables logging unless --debug is given
	Level string `mapstructure:"level"` // debug, info (default), warn, error
}

// TracingConfig holds tracing configuration for line reads.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/rawline/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// EditMode returns the configured editing mode, falling back to emacs.
func (c Config) EditMode() instr.EditMode {
	m, err := instr.ParseEditMode(c.Mode)
	if err != nil {
		return instr.EditEmacs
	}
	return m
}

// configDir returns ~/.config/rawline or empty string if home dir unavailable.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rawline")
}

// DefaultConfigPath returns ~/.config/rawline/config.yaml.
func DefaultConfigPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultHistoryPath returns ~/.config/rawline/history.db.
func DefaultHistoryPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/rawline/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Mode:     "emacs",
		Encoding: "utf-8",
		Prompt:   "> ",
		History: HistoryConfig{
			Enabled:    true,
			Path:       DefaultHistoryPath(),
			MaxEntries: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if _, err := instr.ParseEditMode(c.Mode); err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	if _, err := parser.LookupDecoder(c.Encoding); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if err := ValidateHistory(c.History); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateHistory checks history configuration for errors.
func ValidateHistory(h HistoryConfig) error {
	if h.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", h.MaxEntries)
	}
	if h.Enabled && h.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# rawline configuration

# Editing mode: "emacs" (default) or "vi"
# Change it from the command line with 'rawline mode vi'
mode: emacs

# Input encoding, any IANA character set name (default: utf-8)
# encoding: iso-8859-1

# Prompt shown before each line
prompt: "> "

# History settings
history:
  enabled: true          # Save entered lines and reload them at startup
  # path: ~/.config/rawline/history.db
  max_entries: 1000      # Lines kept in memory for Up/Down browsing (0 = unbounded)

# Debug log (also enabled with --debug)
# log:
#   path: rawline.log
#   level: info          # debug, info, warn, error

# Tracing: one span per line read
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/rawline/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
