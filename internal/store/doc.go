// Package store maps story and feature records onto markdown files.
//
// Records live under a records root:
//
//	features/*.md
//	stories/user-stories/*.md
//	stories/tasks/*.md
//	stories/bugs/*.md
//
// The file stem is the record id. Stores hold no state between calls; every
// operation reads the filesystem fresh. Save re-reads the backing file and
// rewrites only its checklist. There is no locking: a concurrent edit made
// between the re-read and the write is overwritten.
package store
