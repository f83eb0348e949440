package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/storykit/internal/logging"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultRecordsDir  = "."
	DefaultLogDir      = "~/.storykit/logs"
	DefaultFormat      = "text"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultGHBinary    = "gh"
	DefaultMaxAttempts = 3
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the full configuration for storykit.
type Config struct {
	// Paths
	RecordsDir string `toml:"records_dir"`
	LogDir     string `toml:"log_dir"`
	PromptDir  string `toml:"prompt_dir"`

	// Journal enables the mutation journal under LogDir.
	Journal bool `toml:"journal"`

	// FeatureLabels are given to features that declare no labels.
	FeatureLabels []string `toml:"feature_labels"`

	// Output format: text, json, or yaml.
	Format string `toml:"format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	GitHub GitHubConfig `toml:"github"`

	// WorkDir is the directory relative paths resolve against (computed).
	WorkDir string `toml:"-"`
}

// GitHubConfig configures the gh-backed issue tracker.
type GitHubConfig struct {
	Owner       string `toml:"owner"`
	Repo        string `toml:"repo"`
	Binary      string `toml:"binary"`
	MaxAttempts int    `toml:"max_attempts"`
}

// Repository returns "owner/repo", or "" when either part is unset.
func (g GitHubConfig) Repository() string {
	if g.Owner == "" || g.Repo == "" {
		return ""
	}
	return g.Owner + "/" + g.Repo
}

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Unknown lists keys present in config files that no field consumes.
	Unknown []string
}

// Field is a single resolved setting.
type Field struct {
	Key    string       `json:"key" yaml:"key"`
	Value  string       `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// Fields returns every setting in display order with its source.
func (cws *ConfigWithSources) Fields() []Field {
	cfg := cws.Config
	values := map[string]string{
		"records_dir":         cfg.RecordsDir,
		"log_dir":             cfg.LogDir,
		"journal":             fmt.Sprint(cfg.Journal),
		"prompt_dir":          cfg.PromptDir,
		"feature_labels":      strings.Join(cfg.FeatureLabels, ", "),
		"format":              cfg.Format,
		"log_level":           cfg.LogLevel,
		"log_format":          cfg.LogFormat,
		"log_timestamps":      fmt.Sprint(cfg.LogTimestamps),
		"log_caller":          fmt.Sprint(cfg.LogCaller),
		"github.owner":        cfg.GitHub.Owner,
		"github.repo":         cfg.GitHub.Repo,
		"github.binary":       cfg.GitHub.Binary,
		"github.max_attempts": fmt.Sprint(cfg.GitHub.MaxAttempts),
	}
	fields := make([]Field, 0, len(values))
	for _, key := range configFields() {
		src := cws.Sources[key]
		if src == "" {
			src = SourceDefault
		}
		fields = append(fields, Field{Key: key, Value: values[key], Source: src})
	}
	return fields
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"records_dir",
		"log_dir",
		"journal",
		"prompt_dir",
		"feature_labels",
		"format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"github.owner",
		"github.repo",
		"github.binary",
		"github.max_attempts",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.RecordsDir = DefaultRecordsDir
	cfg.LogDir = DefaultLogDir
	cfg.Journal = true
	cfg.FeatureLabels = []string{"feature"}
	cfg.Format = DefaultFormat
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.GitHub = GitHubConfig{
		Binary:      DefaultGHBinary,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Validate reports the first invalid setting.
func (cfg *Config) Validate() error {
	switch cfg.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid format %q, must be one of: text, json, yaml", cfg.Format)
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error, fatal", cfg.LogLevel)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log_format %q, must be one of: text, json, logfmt", cfg.LogFormat)
	}
	if cfg.GitHub.MaxAttempts < 1 {
		return fmt.Errorf("github.max_attempts must be at least 1, got %d", cfg.GitHub.MaxAttempts)
	}
	if strings.TrimSpace(cfg.GitHub.Binary) == "" {
		return fmt.Errorf("github.binary is empty")
	}
	return nil
}
