package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/storykit/internal/config"
	"github.com/nibzard/storykit/internal/story"
)

// Exit codes for CLI commands.
const (
	ExitSuccess     = 0   // Successful execution
	ExitFailure     = 1   // Command failed (record not found, malformed document, gh failure)
	ExitUsage       = 2   // Invalid arguments, flags, or configuration
	ExitInterrupted = 130 // Interrupted by SIGINT or SIGTERM
)

// ExitError carries the exit code a command failure maps to.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError marks err as a usage error.
func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitUsage, Err: err}
}

func usageErrorf(format string, args ...any) error {
	return usageError(fmt.Errorf(format, args...))
}

// ExitCode extracts the exit code from an error. nil maps to ExitSuccess and
// any other error without an explicit code to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// PrintError writes err to w. Lookup failures list the available records.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var nf *story.NotFoundError
	if errors.As(err, &nf) {
		fmt.Fprint(w, nf.Suggestions())
		if !strings.HasSuffix(nf.Suggestions(), "\n") {
			fmt.Fprintln(w)
		}
	}
}

// OutputFormatter writes command results as text, JSON, or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Render writes v in the configured format. Text output is produced by text.
func (f *OutputFormatter) Render(v any, text func(w io.Writer) error) error {
	switch f.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(f.Writer)
	}
}

// Structured reports whether output is machine readable.
func (f *OutputFormatter) Structured() bool {
	return f.Format == config.FormatJSON || f.Format == config.FormatYAML
}

// padRight pads s to n terminal cells, ignoring styling escape sequences.
func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func prSuffix(pr int) string {
	if pr > 0 {
		return fmt.Sprintf(" (#%d)", pr)
	}
	return ""
}
