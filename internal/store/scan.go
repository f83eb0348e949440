package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nibzard/storykit/internal/story"
)

// errMissingDir marks a record directory that does not exist.
var errMissingDir = errors.New("directory does not exist")

// recordFile is a record file found on disk.
type recordFile struct {
	ID   string // file stem
	Path string
	dir  int // index of the directory it was found in
}

// listRecordFiles returns the record files of dir sorted by name.
// Subdirectories are not descended into.
func listRecordFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, errMissingDir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}
	// Glob over an fs.FS keeps directory names out of the pattern.
	names, err := doublestar.Glob(os.DirFS(dir), "*"+RecordExt, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(names)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), RecordExt)
}

// locate finds id in dirs. Exact "{id}.md" matches in any directory win over
// substring matches; within each pass directories are scanned in order.
// Unreadable directories are skipped.
func locate(dirs []string, id string) (recordFile, bool) {
	listings := make([][]string, len(dirs))
	for i, dir := range dirs {
		listings[i], _ = listRecordFiles(dir)
	}
	for i, paths := range listings {
		for _, p := range paths {
			if stem(p) == id {
				return recordFile{ID: id, Path: p, dir: i}, true
			}
		}
	}
	for i, paths := range listings {
		for _, p := range paths {
			if strings.Contains(stem(p), id) {
				return recordFile{ID: stem(p), Path: p, dir: i}, true
			}
		}
	}
	return recordFile{}, false
}

// candidates returns {ID, Title} for every record file in dirs.
func candidates(dirs []string) []story.Candidate {
	out := []story.Candidate{}
	for _, dir := range dirs {
		paths, err := listRecordFiles(dir)
		if err != nil {
			continue
		}
		for _, p := range paths {
			c := story.Candidate{ID: stem(p)}
			if data, err := os.ReadFile(p); err == nil {
				c.Title = story.ParseHeader(string(data)).Title
			}
			out = append(out, c)
		}
	}
	return out
}

// validateID rejects ids that cannot name a record file.
func validateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id is empty", kind)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid %s id %q", kind, id)
	}
	return nil
}
