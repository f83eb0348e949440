package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/storykit/internal/story"
)

const (
	// FeaturesDir holds feature records.
	FeaturesDir = "features"

	// StoriesDir holds one subdirectory per story category.
	StoriesDir = "stories"

	// RecordExt is the extension of every record file.
	RecordExt = ".md"
)

// Category is a story category directory.
type Category struct {
	Type story.Type
	Dir  string
}

// Layout resolves record paths under a records root.
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at root. An empty root is the
// current directory.
func NewLayout(root string) Layout {
	if root == "" {
		root = "."
	}
	return Layout{Root: filepath.Clean(root)}
}

// CategoryDirName returns the directory name of a story type.
func CategoryDirName(t story.Type) string {
	switch t {
	case story.TypeUserStory:
		return "user-stories"
	case story.TypeTask:
		return "tasks"
	case story.TypeBug:
		return "bugs"
	}
	return string(t)
}

// FeaturesPath returns the features directory.
func (l Layout) FeaturesPath() string {
	return filepath.Join(l.Root, FeaturesDir)
}

// StoriesPath returns the stories directory.
func (l Layout) StoriesPath() string {
	return filepath.Join(l.Root, StoriesDir)
}

// CategoryPath returns the directory of a story category.
func (l Layout) CategoryPath(t story.Type) string {
	return filepath.Join(l.StoriesPath(), CategoryDirName(t))
}

// Categories returns the story categories in scan order.
func (l Layout) Categories() []Category {
	types := story.Types()
	cats := make([]Category, 0, len(types))
	for _, t := range types {
		cats = append(cats, Category{Type: t, Dir: l.CategoryPath(t)})
	}
	return cats
}

// StoryPath returns the file a story of type t with the given id lives in.
func (l Layout) StoryPath(t story.Type, id string) string {
	return filepath.Join(l.CategoryPath(t), id+RecordExt)
}

// FeaturePath returns the file of a feature id.
func (l Layout) FeaturePath(id string) string {
	return filepath.Join(l.FeaturesPath(), id+RecordExt)
}

// Dirs returns every record directory: features first, then story categories.
func (l Layout) Dirs() []string {
	dirs := []string{l.FeaturesPath()}
	for _, c := range l.Categories() {
		dirs = append(dirs, c.Dir)
	}
	return dirs
}

// Init creates every record directory.
func (l Layout) Init() error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
