package story

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports that no record matches an identifier.
	ErrNotFound = errors.New("record not found")

	// ErrMalformedDocument reports a document that lacks a structural anchor
	// required by an operation.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrTaskListTruncated reports a merge with fewer tasks than the document
	// already holds. Tasks can be added and updated, never removed.
	ErrTaskListTruncated = errors.New("task list is shorter than the document checklist")
)

// Candidate is an available record offered when a lookup fails.
type Candidate struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// NotFoundError is returned when no record file matches an identifier.
type NotFoundError struct {
	Kind       string // "story" or "feature"
	ID         string
	Candidates []Candidate
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Suggestions renders the candidate list as "did you mean" lines.
func (e *NotFoundError) Suggestions() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no %s records exist", e.Kind)
	}
	var b strings.Builder
	b.WriteString("available:\n")
	for _, c := range e.Candidates {
		if c.Title == "" {
			fmt.Fprintf(&b, "  %s\n", c.ID)
			continue
		}
		fmt.Fprintf(&b, "  %s  %s\n", c.ID, c.Title)
	}
	return b.String()
}

// MalformedDocumentError describes why a document cannot be rewritten.
type MalformedDocumentError struct {
	Path   string
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return e.Reason
}

// Unwrap returns ErrMalformedDocument.
func (e *MalformedDocumentError) Unwrap() error {
	return ErrMalformedDocument
}
