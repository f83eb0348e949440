// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.storykit/storykit.toml or OS-specific config directory)
// 3. Project config file (storykit.toml or .storykit.toml in the working directory)
// 4. Environment variables (STORYKIT_*, GH_BIN)
// 5. CLI flags that were explicitly set
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.storykit/storykit.toml (preferred)
// - Windows: %APPDATA%\storykit\storykit.toml
// - macOS: ~/Library/Application Support/storykit/storykit.toml
// - Linux/BSD: $XDG_CONFIG_HOME/storykit/storykit.toml or ~/.config/storykit/storykit.toml
package config
