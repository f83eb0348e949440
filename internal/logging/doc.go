// Package logging provides the console logger and the mutation journal.
//
// The console logger is a charmbracelet/log logger configured from the
// log_* settings. The journal is an append-only JSONL file per project that
// records every successful record mutation; `storykit history` reads it back.
package logging
