package story

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// checklistPattern matches "- [ ] text", "[x] text", "  -[X] text".
	checklistPattern = regexp.MustCompile(`^\s*(?:-\s*)?\[([ xX])\]\s+(.+?)\s*$`)

	// prSuffixPattern captures a trailing "(#123)" pull request reference.
	prSuffixPattern = regexp.MustCompile(`^(.*?)\s*\(#(\d+)\)$`)

	tasksHeadingPattern = regexp.MustCompile(`(?i)^##\s*Tasks`)
	headingPattern      = regexp.MustCompile(`^##`)
)

// developerNoteMarker identifies the optional note line directly below the
// Tasks heading. Matching is case-insensitive.
const developerNoteMarker = "developer note"

// parseChecklistLine decodes a single line. The returned task has no ID.
func parseChecklistLine(line string) (Task, bool) {
	m := checklistPattern.FindStringSubmatch(lineBody(line))
	if m == nil {
		return Task{}, false
	}
	t := Task{
		Description: m[2],
		Completed:   m[1] == "x" || m[1] == "X",
	}
	if pm := prSuffixPattern.FindStringSubmatch(t.Description); pm != nil {
		if n, err := strconv.Atoi(pm[2]); err == nil {
			t.Description = strings.TrimSpace(pm[1])
			t.PRNumber = n
		}
	}
	return t, true
}

// DecodeTasks returns every checklist item in the document, in order.
// IDs are assigned positionally starting at 1.
func DecodeTasks(doc string) []Task {
	tasks := []Task{}
	for _, line := range splitLines(doc) {
		t, ok := parseChecklistLine(line)
		if !ok {
			continue
		}
		t.ID = len(tasks) + 1
		tasks = append(tasks, t)
	}
	return tasks
}

// FormatTask renders a task as a canonical checklist line without line ending.
func FormatTask(t Task) string {
	box := " "
	if t.Completed {
		box = "x"
	}
	line := "- [" + box + "] " + t.Description
	if t.PRNumber > 0 {
		line += fmt.Sprintf(" (#%d)", t.PRNumber)
	}
	return line
}

// sameTask compares the persisted fields of two tasks, ignoring the positional ID.
func sameTask(a, b Task) bool {
	return a.Description == b.Description && a.Completed == b.Completed && a.PRNumber == b.PRNumber
}

// section is the state of the merge scanner for a given line.
type section int

const (
	sectionPreamble section = iota // before any "##" heading
	sectionBody                    // inside a "##" section other than Tasks
	sectionTasks                   // inside the Tasks section
)

func (s section) String() string {
	switch s {
	case sectionPreamble:
		return "preamble"
	case sectionBody:
		return "body"
	case sectionTasks:
		return "tasks"
	}
	return "unknown"
}

// next returns the state after reading line. Headings drive every transition.
func (s section) next(line string) section {
	body := lineBody(line)
	switch {
	case tasksHeadingPattern.MatchString(body):
		return sectionTasks
	case headingPattern.MatchString(body):
		return sectionBody
	}
	return s
}

// sections returns the scanner state of every line.
func sections(lines []string) []section {
	states := make([]section, len(lines))
	state := sectionPreamble
	for i, line := range lines {
		state = state.next(line)
		states[i] = state
	}
	return states
}

// tasksBlock locates the run of checklist and blank lines below the Tasks
// heading.
type tasksBlock struct {
	heading int // index of the Tasks heading line
	start   int // first line of the run
	end     int // one past the last line of the run
}

// findTasksBlock finds the first Tasks heading and the run of checklist and
// blank lines below it, after an optional developer note.
func findTasksBlock(lines []string) (tasksBlock, bool) {
	states := sections(lines)
	blk := tasksBlock{heading: -1}
	for i, st := range states {
		if st == sectionTasks {
			blk.heading = i
			break
		}
	}
	if blk.heading < 0 {
		return blk, false
	}

	blk.start = blk.heading + 1
	if blk.start < len(lines) && states[blk.start] == sectionTasks && isDeveloperNote(lines[blk.start]) {
		blk.start++
	}

	blk.end = blk.start
	for blk.end < len(lines) && states[blk.end] == sectionTasks {
		line := lines[blk.end]
		if _, ok := parseChecklistLine(line); !ok && !isBlank(line) {
			break
		}
		blk.end++
	}
	return blk, true
}

func isDeveloperNote(line string) bool {
	if _, ok := parseChecklistLine(line); ok {
		return false
	}
	return strings.Contains(strings.ToLower(line), developerNoteMarker)
}

// MergeTasks writes tasks back into doc.
//
// Every existing checklist line keeps its place. A line whose task is
// unchanged is copied byte for byte; a changed one is re-rendered with its
// original indentation. Tasks beyond the document's current checklist are
// inserted directly after its last checklist line, so they decode after every
// existing item. When no checklist line follows the Tasks heading, they are
// placed at the end of the blank run below the heading (or its developer
// note). All other lines are copied through unchanged.
//
// tasks must be positionally aligned with DecodeTasks(doc): entries 1..N update
// the existing checklist items and entries past N are appended.
func MergeTasks(doc string, tasks []Task) (string, error) {
	lines := splitLines(doc)
	blk, ok := findTasksBlock(lines)
	if !ok {
		return "", &MalformedDocumentError{Reason: `no "## Tasks" heading`}
	}

	existing, last := 0, -1
	for i, line := range lines {
		if _, ok := parseChecklistLine(line); ok {
			existing++
			last = i
		}
	}
	if len(tasks) < existing {
		return "", fmt.Errorf("%w: document has %d, got %d", ErrTaskListTruncated, existing, len(tasks))
	}
	appended := tasks[existing:]

	// anchor is the line the appended tasks follow; -1 places them in the run.
	anchor := -1
	if last >= blk.start {
		anchor = last
	}
	eol := blockEnding(lines, blk, anchor)

	w := &lineWriter{}
	placed := len(appended) == 0
	idx := 0
	for i, line := range lines {
		if !placed && anchor < 0 && i == blk.end {
			writeTasks(w, appended, eol, false)
			// Keep the new items apart from whatever follows the run.
			w.line("", eol)
			placed = true
		}
		orig, ok := parseChecklistLine(line)
		if !ok {
			w.raw(line)
			continue
		}
		updated := tasks[idx]
		idx++
		if sameTask(orig, updated) {
			w.raw(line)
		} else {
			body := lineBody(line)
			indent := body[:len(body)-len(strings.TrimLeft(body, " \t"))]
			w.line(indent+FormatTask(updated), lineEnding(line))
		}
		if !placed && i == anchor {
			// An unterminated final checklist line stays unterminated.
			writeTasks(w, appended, eol, lineEnding(line) == "")
			placed = true
		}
	}
	// The run reaches the end of the document.
	if !placed {
		writeTasks(w, appended, eol, false)
	}
	return w.String(), nil
}

// writeTasks emits freshly formatted tasks. open leaves the last one
// unterminated.
func writeTasks(w *lineWriter, tasks []Task, eol string, open bool) {
	for i, t := range tasks {
		ending := eol
		if open && i == len(tasks)-1 {
			ending = ""
		}
		w.line(FormatTask(t), ending)
	}
}

// blockEnding picks the line ending used for freshly formatted lines.
func blockEnding(lines []string, blk tasksBlock, anchor int) string {
	if anchor >= 0 {
		if eol := lineEnding(lines[anchor]); eol != "" {
			return eol
		}
	}
	for i := blk.start; i < blk.end; i++ {
		if _, ok := parseChecklistLine(lines[i]); ok {
			if eol := lineEnding(lines[i]); eol != "" {
				return eol
			}
		}
	}
	if eol := lineEnding(lines[blk.heading]); eol != "" {
		return eol
	}
	return "\n"
}

// lineWriter concatenates lines, terminating an unterminated line before
// another one is appended.
type lineWriter struct {
	b    strings.Builder
	open bool // last write did not end with a line ending
}

func (w *lineWriter) raw(line string) {
	if w.open {
		w.b.WriteString("\n")
	}
	w.b.WriteString(line)
	w.open = lineEnding(line) == ""
}

func (w *lineWriter) line(body, eol string) {
	w.raw(body + eol)
}

func (w *lineWriter) String() string {
	return w.b.String()
}
