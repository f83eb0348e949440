package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags.
const (
	FlagRoot      = "root"
	FlagFormat    = "format"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagLogDir    = "log-dir"
	FlagJournal   = "journal"
	FlagPromptDir = "prompt-dir"
	FlagRepo      = "repo"
	FlagGHBin     = "gh-bin"
)

// RegisterFlags adds the configuration flags to fs. Defaults are left empty;
// only flags the user sets override lower-priority sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagRoot, "", "records root directory (default \".\")")
	fs.StringP(FlagFormat, "o", "", "output format: text, json, yaml")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, "", "log format: text, json, logfmt")
	fs.String(FlagLogDir, "", "journal base directory")
	fs.Bool(FlagJournal, true, "record mutations in the journal")
	fs.String(FlagPromptDir, "", "directory with prompt template overrides")
	fs.String(FlagRepo, "", "GitHub repository as owner/name")
	fs.String(FlagGHBin, "", "path to the gh binary")
}

// applyFlags copies every explicitly set flag into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet, sources map[string]ConfigSource) error {
	str := func(name, field string, target *string) error {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			return nil
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*target = v
		sources[field] = SourceFlag
		return nil
	}

	if err := str(FlagRoot, "records_dir", &cfg.RecordsDir); err != nil {
		return err
	}
	if err := str(FlagFormat, "format", &cfg.Format); err != nil {
		return err
	}
	if err := str(FlagLogLevel, "log_level", &cfg.LogLevel); err != nil {
		return err
	}
	if err := str(FlagLogFormat, "log_format", &cfg.LogFormat); err != nil {
		return err
	}
	if err := str(FlagLogDir, "log_dir", &cfg.LogDir); err != nil {
		return err
	}
	if err := str(FlagPromptDir, "prompt_dir", &cfg.PromptDir); err != nil {
		return err
	}
	if err := str(FlagGHBin, "github.binary", &cfg.GitHub.Binary); err != nil {
		return err
	}

	if fs.Lookup(FlagJournal) != nil && fs.Changed(FlagJournal) {
		v, err := fs.GetBool(FlagJournal)
		if err != nil {
			return err
		}
		cfg.Journal = v
		sources["journal"] = SourceFlag
	}

	if fs.Lookup(FlagRepo) != nil && fs.Changed(FlagRepo) {
		v, _ := fs.GetString(FlagRepo)
		owner, repo, err := ParseRepository(v)
		if err != nil {
			return err
		}
		cfg.GitHub.Owner, cfg.GitHub.Repo = owner, repo
		sources["github.owner"] = SourceFlag
		sources["github.repo"] = SourceFlag
	}
	return nil
}

// ParseRepository splits "owner/name".
func ParseRepository(s string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", s)
	}
	return parts[0], parts[1], nil
}
