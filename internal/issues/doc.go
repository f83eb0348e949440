// Package issues imports records from, and comments on, a remote issue
// tracker. The only implementation drives the GitHub CLI (gh); callers
// depend on the Tracker interface.
package issues
