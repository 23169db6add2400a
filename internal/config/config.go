// Package config provides configuration types and defaults for splitdiff.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/log"
)

// Config holds all configuration options for splitdiff.
type Config struct {
	Diff    DiffConfig    `mapstructure:"diff"`
	UI      UIConfig      `mapstructure:"ui"`
	Watch   bool          `mapstructure:"watch"` // Reload loaded files when they change on disk
	Tracing TracingConfig `mapstructure:"tracing"`
}

// DiffConfig controls when and how the diff is computed.
type DiffConfig struct {
	Live          bool          `mapstructure:"live"`           // Recompute while typing; false waits for Compare
	Debounce      time.Duration `mapstructure:"debounce"`       // Quiet period before a live recompute
	ContextRadius int           `mapstructure:"context_radius"` // Unchanged rows kept around changes in changes-only view
	Algorithm     string        `mapstructure:"algorithm"`      // "myers" (default) or "dmp"
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`      // Lifetime of memoized results; 0 disables the cache
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ChangesOnly    bool   `mapstructure:"changes_only"`
	LineNumbers    bool   `mapstructure:"line_numbers"`
	Highlight      bool   `mapstructure:"highlight"`       // Syntax highlight unchanged rows
	HighlightStyle string `mapstructure:"highlight_style"` // chroma style name
	ShowHelp       bool   `mapstructure:"show_help"`       // Show the key hint bar
	MarkdownStyle  string `mapstructure:"markdown_style"`  // "dark" (default) or "light"
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/splitdiff/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/splitdiff/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "splitdiff", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Diff: DiffConfig{
			Live:          true,
			Debounce:      400 * time.Millisecond,
			ContextRadius: diff.DefaultContextRadius,
			Algorithm:     "myers",
			CacheTTL:      5 * time.Minute,
		},
		UI: UIConfig{
			ChangesOnly:    false,
			LineNumbers:    true,
			Highlight:      true,
			HighlightStyle: "monokai",
			ShowHelp:       true,
			MarkdownStyle:  "dark",
		},
		Watch: false,
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateDiff(cfg.Diff); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateDiff checks diff configuration for errors.
func ValidateDiff(d DiffConfig) error {
	if d.Debounce < 0 {
		return fmt.Errorf("diff.debounce must not be negative, got %v", d.Debounce)
	}
	if d.ContextRadius < 0 {
		return fmt.Errorf("diff.context_radius must not be negative, got %d", d.ContextRadius)
	}
	if d.CacheTTL < 0 {
		return fmt.Errorf("diff.cache_ttl must not be negative, got %v", d.CacheTTL)
	}
	if d.Algorithm != "" && !slices.Contains(diff.AlgorithmNames, d.Algorithm) {
		return fmt.Errorf("diff.algorithm must be one of %s, got %q",
			strings.Join(diff.AlgorithmNames, ", "), d.Algorithm)
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
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

	// Path requirements only matter when tracing is on
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# splitdiff configuration

# Diff computation
diff:
  live: true              # Recompute while typing; false = only on Compare (ctrl+s)
  debounce: 400ms         # Quiet period before a live recompute
  context_radius: 3       # Unchanged rows shown around each change in changes-only view
  algorithm: myers        # myers (default) or dmp
  cache_ttl: 5m           # How long computed results are memoized; 0 disables

# UI settings
ui:
  changes_only: false     # Start in changes-only view (toggle with "c")
  line_numbers: true      # Show line number gutters
  highlight: true         # Syntax highlight unchanged rows
  highlight_style: monokai
  show_help: true         # Show key hints at the bottom
  # markdown_style: dark  # Help screen style: "dark" (default) or "light"

# Reload files given on the command line when they change on disk
watch: false

# Tracing of diff computations
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/splitdiff/traces/traces.jsonl
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
