package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the config file name in every searched location.
const ConfigFileName = "storykit.toml"

// findProjectConfigFile looks for a config file in dir.
func findProjectConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, "." + ConfigFileName} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.storykit/storykit.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile(home string, getenv func(string) string) string {
	if home != "" {
		p := filepath.Join(home, ".storykit", ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if cfgDir := osUserConfigDir(home, getenv); cfgDir != "" {
		p := filepath.Join(cfgDir, "storykit", ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir(home string, getenv func(string) string) string {
	switch runtime.GOOS {
	case "windows":
		if appdata := getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home != "" {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home != "" {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
