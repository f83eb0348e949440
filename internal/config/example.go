package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# storykit configuration file
# Values can be overridden by environment variables (STORYKIT_*) or CLI flags.

# Records root holding features/ and stories/ (relative to the working directory)
records_dir = "."

# Journal base directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.storykit/logs"

# Record every save and import in <log_dir>/<project>/journal.jsonl
journal = true

# Directory with implement.txt / plan.txt overrides
# prompt_dir = ".storykit/prompts"

# Labels given to features that declare none
feature_labels = ["feature"]

# Output format: text, json, or yaml
format = "text"

# Logging
log_level = "warn"
log_format = "text"
log_timestamps = false
log_caller = false

[github]
# owner = "acme"
# repo = "shop"
binary = "gh"
max_attempts = 3
`
}
