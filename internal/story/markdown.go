package story

import (
	"regexp"
	"strings"

	"github.com/nibzard/storykit/internal/utils"
)

var (
	// labelsPattern matches "Label: a" or "Labels: a, b" anywhere on a line.
	labelsPattern = regexp.MustCompile(`Labels?:\s*(.+)`)

	// featurePattern matches a "Feature: <id>" line.
	featurePattern = regexp.MustCompile(`^\s*Feature:\s*(\S+)`)
)

// ParseHeader extracts the title, description, and labels of a document.
// A blank document yields an empty title and description. Labels is never nil.
func ParseHeader(doc string) Header {
	h := Header{Labels: ParseLabels(doc)}

	lines := splitLines(doc)
	titleIdx := -1
	for i, line := range lines {
		if !isBlank(line) {
			titleIdx = i
			break
		}
	}
	if titleIdx < 0 {
		return h
	}
	h.Title = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lineBody(lines[titleIdx])), "#"))

	// Description starts after the first blank run that follows the title.
	i := titleIdx + 1
	for i < len(lines) && !isBlank(lines[i]) {
		i++
	}
	for i < len(lines) && isBlank(lines[i]) {
		i++
	}
	if i < len(lines) {
		h.Description = strings.TrimSpace(strings.Join(lines[i:], ""))
	}
	return h
}

// ParseLabels returns the comma-separated labels of the first Labels line.
func ParseLabels(doc string) []string {
	for _, line := range splitLines(doc) {
		if m := labelsPattern.FindStringSubmatch(lineBody(line)); m != nil {
			return utils.SplitAndTrim(m[1], ",")
		}
	}
	return []string{}
}

// ParseFeatureID returns the feature referenced by a "Feature:" line, or "".
func ParseFeatureID(doc string) string {
	for _, line := range splitLines(doc) {
		if m := featurePattern.FindStringSubmatch(lineBody(line)); m != nil {
			return m[1]
		}
	}
	return ""
}

// Summary returns the part of a description above the Tasks section.
func Summary(description string) string {
	lines := splitLines(description)
	for i, line := range lines {
		if tasksHeadingPattern.MatchString(lineBody(line)) {
			return strings.TrimSpace(strings.Join(lines[:i], ""))
		}
	}
	return strings.TrimSpace(description)
}

// DeveloperNote is written below the Tasks heading of new documents.
const DeveloperNote = "_Developer note: check items off as they land; only this list is rewritten by tooling._"

// RenderDocument renders a new record document with an empty Tasks section.
// The Labels and Feature lines come before the description so that they are
// the first matches ParseLabels and ParseFeatureID see.
func RenderDocument(h Header, featureID string) string {
	var b strings.Builder
	b.WriteString("# " + strings.TrimSpace(h.Title) + "\n\n")
	meta := false
	if len(h.Labels) > 0 {
		b.WriteString("Labels: " + strings.Join(h.Labels, ", ") + "\n")
		meta = true
	}
	if featureID != "" {
		b.WriteString("Feature: " + featureID + "\n")
		meta = true
	}
	if meta {
		b.WriteString("\n")
	}
	if desc := strings.TrimSpace(h.Description); desc != "" {
		b.WriteString(desc + "\n\n")
	}
	// The note must sit directly below the heading to be skipped by MergeTasks.
	b.WriteString("## Tasks\n")
	b.WriteString(DeveloperNote + "\n\n")
	return b.String()
}

// splitLines splits doc into lines that keep their line endings.
func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	lines := strings.SplitAfter(doc, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineBody strips the line ending.
func lineBody(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// lineEnding returns the line ending of line, or "" for an unterminated last line.
func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
