package logging

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nibzard/storykit/internal/utils"
)

// JournalFile is the journal file name inside the project log directory.
const JournalFile = "journal.jsonl"

// Journal actions.
const (
	ActionSave   = "save"
	ActionCreate = "create"
)

// Progress is a done/total task count.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Done, p.Total)
}

// Entry is one journal line.
type Entry struct {
	Time        time.Time `json:"time"`
	Action      string    `json:"action"`
	Kind        string    `json:"kind"`
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	TasksBefore Progress  `json:"tasks_before"`
	TasksAfter  Progress  `json:"tasks_after"`
	Status      string    `json:"status,omitempty"`
}

// Journal appends mutation entries to a per-project JSONL file.
type Journal struct {
	Dir  string
	Path string
	now  func() time.Time
}

// OpenJournal resolves the journal for the project containing workDir and
// creates its directory. A relative baseDir is resolved against workDir.
func OpenJournal(baseDir, workDir string) (*Journal, error) {
	dir, err := FindJournalDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &Journal{Dir: dir, Path: filepath.Join(dir, JournalFile), now: time.Now}, nil
}

// FindJournalDir returns the journal directory for workDir without creating it.
func FindJournalDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	resolvedWorkDir := workDir
	if resolvedWorkDir == "" {
		resolvedWorkDir = "."
	}
	if abs, err := filepath.Abs(resolvedWorkDir); err == nil {
		resolvedWorkDir = abs
	}

	baseDir = resolveBaseDir(baseDir, resolvedWorkDir)
	return filepath.Join(baseDir, projectSlug(resolveProjectRoot(resolvedWorkDir))), nil
}

// Append writes e as one JSON line. A zero Time is set to the current time.
// A nil journal discards the entry.
func (j *Journal) Append(e Entry) error {
	if j == nil {
		return nil
	}
	if e.Time.IsZero() {
		now := time.Now
		if j.now != nil {
			now = j.now
		}
		e.Time = now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	f, err := os.OpenFile(j.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	return f.Close()
}

// Tail returns the last n entries, oldest first. n <= 0 returns every entry.
// A missing journal yields no entries. Lines that do not decode are skipped.
func (j *Journal) Tail(n int) ([]Entry, error) {
	f, err := os.Open(j.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
		if n > 0 && len(entries) > n {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

// resolveProjectRoot returns the git top level of workDir, or workDir itself.
func resolveProjectRoot(workDir string) string {
	if workDir == "" {
		return "."
	}
	if _, err := exec.LookPath("git"); err == nil {
		cmd := exec.Command("git", "-C", workDir, "rev-parse", "--show-toplevel")
		if output, err := cmd.Output(); err == nil {
			root := strings.TrimSpace(string(output))
			if root != "" {
				return root
			}
		}
	}
	return workDir
}

func projectSlug(projectRoot string) string {
	slug := utils.Slugify(filepath.Base(projectRoot))
	if slug == "" {
		slug = "project"
	}
	return fmt.Sprintf("%s-%s", slug, hashPath(projectRoot))
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}
