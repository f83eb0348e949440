// Package story parses, derives, and rewrites markdown story records.
//
// A record is a plain markdown document written by a human:
//
//	# Add CSV export
//
//	Users want to download their reports.
//
//	Labels: export, reports
//	Feature: reporting
//
//	## Tasks
//
//	- [ ] Add export button
//	- [x] Write the CSV encoder (#12)
//
//	## Notes
//
//	Anything the author likes.
//
// # Parsing
//
// ParseHeader extracts the title (first non-blank line, leading '#' run stripped),
// the description (everything after the first blank run that follows the title),
// the optional label list and the optional feature reference.
//
// DecodeTasks scans every line of the document for checklist items, independent of
// section boundaries. Task IDs are assigned positionally (1-based, document order)
// and are therefore not stable across edits that reorder the checklist.
//
// # Rewriting
//
// MergeTasks writes a task list back into the document. Existing checklist lines
// stay where they are and are only re-rendered when their task changed. New tasks
// go directly after the last checklist line, or into the blank run below the
// "## Tasks" heading when no item follows it, so they decode after every existing
// item. Documents without a Tasks heading are rejected with ErrMalformedDocument
// instead of being rewritten.
//
// # Status Values
//
//   - "todo": no task completed (or no tasks at all)
//   - "in-progress": some, but not all, tasks completed
//   - "review": never derived; only present when set by hand
//   - "done": every task completed
package story
