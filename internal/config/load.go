package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// LoadOptions controls where configuration is read from. Zero values use
// the process environment, home directory, and working directory.
type LoadOptions struct {
	// WorkDir is searched for project config and anchors relative paths.
	WorkDir string
	// HomeDir is searched for user config.
	HomeDir string
	// Flags holds the parsed command-line flags registered by RegisterFlags.
	Flags *pflag.FlagSet
	// LookupEnv replaces os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load loads configuration from every source in priority order.
func Load(opts LoadOptions) (*Config, error) {
	cws, err := LoadWithSources(opts)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(opts LoadOptions) (*ConfigWithSources, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	getenv := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}
	home := opts.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	cfg := &Config{WorkDir: workDir}
	cws := &ConfigWithSources{Config: cfg, Sources: make(map[string]ConfigSource)}

	// 1. Defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. User config file
	if path := findUserConfigFile(home, getenv); path != "" {
		if err := loadConfigFile(cws, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Project config file
	if path := findProjectConfigFile(workDir); path != "" {
		if err := loadConfigFile(cws, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Environment
	if err := loadFromEnv(cfg, cws.Sources, lookup); err != nil {
		return nil, err
	}

	// 5. Flags
	if opts.Flags != nil {
		if err := applyFlags(cfg, opts.Flags, cws.Sources); err != nil {
			return nil, fmt.Errorf("parsing flags: %w", err)
		}
	}

	// 6. Derived values
	finalizeConfig(cfg, home, getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cws, nil
}

// loadConfigFile decodes path over the current values and marks every key it
// defines with source.
func loadConfigFile(cws *ConfigWithSources, path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cws.Config)
	if err != nil {
		return err
	}
	cws.Files = append(cws.Files, path)
	for _, field := range configFields() {
		if md.IsDefined(strings.Split(field, ".")...) {
			cws.Sources[field] = source
		}
	}
	for _, key := range md.Undecoded() {
		cws.Unknown = append(cws.Unknown, fmt.Sprintf("%s: %s", path, key.String()))
	}
	return nil
}

// finalizeConfig expands and anchors paths.
func finalizeConfig(cfg *Config, home string, getenv func(string) string) {
	cfg.RecordsDir = anchor(expandPath(cfg.RecordsDir, home, getenv), cfg.WorkDir)
	cfg.LogDir = expandPath(cfg.LogDir, home, getenv)
	if cfg.PromptDir != "" {
		cfg.PromptDir = anchor(expandPath(cfg.PromptDir, home, getenv), cfg.WorkDir)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
}

func anchor(p, dir string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
