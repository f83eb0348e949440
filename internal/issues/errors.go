package issues

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPullRequest reports that an issue number refers to a pull request.
	ErrPullRequest = errors.New("number refers to a pull request")

	// ErrInvalidPayload reports a tracker response that fails schema validation.
	ErrInvalidPayload = errors.New("invalid issue payload")
)

// CommandError is a failed gh invocation.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("gh %s: %s", strings.Join(e.Args, " "), msg)
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// transientMarkers are gh/API error fragments worth retrying.
var transientMarkers = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"temporary failure",
	"tls handshake",
	"http 500",
	"http 502",
	"http 503",
	"http 504",
	"secondary rate limit",
	"eof",
}

// Transient reports whether a command failure is worth retrying.
func (e *CommandError) Transient() bool {
	if e.ExitCode < 0 {
		// The process never ran.
		return false
	}
	stderr := strings.ToLower(e.Stderr)
	for _, m := range transientMarkers {
		if strings.Contains(stderr, m) {
			return true
		}
	}
	return false
}

// PayloadError lists schema violations in a tracker response.
type PayloadError struct {
	Problems []string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPayload, strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrInvalidPayload.
func (e *PayloadError) Unwrap() error {
	return ErrInvalidPayload
}
