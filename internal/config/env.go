package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/storykit/internal/utils"
)

// envBinding maps an environment variable onto a config field.
type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, v string) error
}

func envBindings() []envBinding {
	str := func(set func(*Config, string)) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			set(cfg, v)
			return nil
		}
	}
	boolean := func(set func(*Config, bool)) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			set(cfg, boolFromString(v))
			return nil
		}
	}
	return []envBinding{
		{"STORYKIT_RECORDS_DIR", "records_dir", str(func(c *Config, v string) { c.RecordsDir = v })},
		{"STORYKIT_LOG_DIR", "log_dir", str(func(c *Config, v string) { c.LogDir = v })},
		{"STORYKIT_JOURNAL", "journal", boolean(func(c *Config, v bool) { c.Journal = v })},
		{"STORYKIT_PROMPT_DIR", "prompt_dir", str(func(c *Config, v string) { c.PromptDir = v })},
		{"STORYKIT_FEATURE_LABELS", "feature_labels", str(func(c *Config, v string) { c.FeatureLabels = utils.SplitAndTrim(v, ",") })},
		{"STORYKIT_FORMAT", "format", str(func(c *Config, v string) { c.Format = v })},
		{"STORYKIT_LOG_LEVEL", "log_level", str(func(c *Config, v string) { c.LogLevel = v })},
		{"STORYKIT_LOG_FORMAT", "log_format", str(func(c *Config, v string) { c.LogFormat = v })},
		{"STORYKIT_LOG_TIMESTAMPS", "log_timestamps", boolean(func(c *Config, v bool) { c.LogTimestamps = v })},
		{"STORYKIT_LOG_CALLER", "log_caller", boolean(func(c *Config, v bool) { c.LogCaller = v })},
		{"STORYKIT_GITHUB_OWNER", "github.owner", str(func(c *Config, v string) { c.GitHub.Owner = v })},
		{"STORYKIT_GITHUB_REPO", "github.repo", str(func(c *Config, v string) { c.GitHub.Repo = v })},
		{"GH_BIN", "github.binary", str(func(c *Config, v string) { c.GitHub.Binary = v })},
		{"STORYKIT_GITHUB_MAX_ATTEMPTS", "github.max_attempts", func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("STORYKIT_GITHUB_MAX_ATTEMPTS: %q is not an integer", v)
			}
			c.GitHub.MaxAttempts = n
			return nil
		}},
	}
}

// loadFromEnv overrides config from environment variables. Empty values are
// ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource, lookup func(string) (string, bool)) error {
	for _, b := range envBindings() {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return err
		}
		sources[b.field] = SourceEnv
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
