package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/nibzard/storykit/internal/logging"
	"github.com/nibzard/storykit/internal/story"
)

// ErrExists reports that a record file is already present.
var ErrExists = errors.New("record already exists")

const kindStory = "story"

// StoryStore loads and saves story records.
type StoryStore struct {
	layout Layout
	opts   options
}

// NewStoryStore returns a store over the story categories of layout.
func NewStoryStore(layout Layout, opts ...Option) *StoryStore {
	return &StoryStore{layout: layout, opts: buildOptions(opts)}
}

// Layout returns the store layout.
func (s *StoryStore) Layout() Layout {
	return s.layout
}

func (s *StoryStore) dirs() []string {
	cats := s.layout.Categories()
	dirs := make([]string, len(cats))
	for i, c := range cats {
		dirs[i] = c.Dir
	}
	return dirs
}

// Locate returns the backing file and type of the story id.
func (s *StoryStore) Locate(id string) (string, story.Type, error) {
	if err := validateID(kindStory, id); err != nil {
		return "", "", err
	}
	rf, ok := locate(s.dirs(), id)
	if !ok {
		return "", "", &story.NotFoundError{Kind: kindStory, ID: id, Candidates: candidates(s.dirs())}
	}
	t := s.layout.Categories()[rf.dir].Type
	s.opts.logger.Debug("located story", "id", id, "path", rf.Path, "type", t)
	return rf.Path, t, nil
}

// Load locates and parses the story id.
func (s *StoryStore) Load(ctx context.Context, id string) (*story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, t, err := s.Locate(id)
	if err != nil {
		return nil, err
	}
	return s.read(path, t)
}

// List returns every story, in category scan order then by id. Missing or
// unreadable category directories and unreadable files are skipped.
func (s *StoryStore) List(ctx context.Context) ([]story.Story, error) {
	stories := []story.Story{}
	for _, c := range s.layout.Categories() {
		paths, err := listRecordFiles(c.Dir)
		if err != nil {
			if errors.Is(err, errMissingDir) {
				s.opts.logger.Debug("category directory missing", "dir", c.Dir)
			} else {
				s.opts.logger.Warn("skipping category", "dir", c.Dir, "err", err)
			}
			continue
		}
		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			st, err := s.read(p, c.Type)
			if err != nil {
				s.opts.logger.Warn("skipping unreadable story", "path", p, "err", err)
				continue
			}
			stories = append(stories, *st)
		}
	}
	return stories, nil
}

// Save merges st.Tasks into the file st was loaded from. A document whose
// checklist already matches is left untouched.
func (s *StoryStore) Save(ctx context.Context, st *story.Story) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st.Path == "" {
		return fmt.Errorf("story %q has no backing file", st.ID)
	}
	data, err := os.ReadFile(st.Path)
	if err != nil {
		return fmt.Errorf("read story %q: %w", st.ID, err)
	}
	doc := string(data)
	before := story.DecodeTasks(doc)

	merged, err := story.MergeTasks(doc, st.Tasks)
	if err != nil {
		var mde *story.MalformedDocumentError
		if errors.As(err, &mde) {
			mde.Path = st.Path
		}
		return fmt.Errorf("save story %q: %w", st.ID, err)
	}
	st.Status = story.DeriveStatus(st.Tasks)
	if merged == doc {
		s.opts.logger.Debug("story unchanged", "id", st.ID, "path", st.Path)
		return nil
	}

	if err := atomic.WriteFile(st.Path, strings.NewReader(merged)); err != nil {
		return fmt.Errorf("write story %q: %w", st.ID, err)
	}
	s.opts.logger.Info("saved story", "id", st.ID, "path", st.Path, "status", st.Status)
	s.record(logging.ActionSave, st, before)
	return nil
}

// Create writes a new story file rendered from h. It fails with ErrExists
// when any category already holds a file named {id}.md.
func (s *StoryStore) Create(ctx context.Context, t story.Type, id string, h story.Header, featureID string) (*story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateID(kindStory, id); err != nil {
		return nil, err
	}
	for _, c := range s.layout.Categories() {
		p := s.layout.StoryPath(c.Type, id)
		if _, err := os.Stat(p); err == nil {
			return nil, fmt.Errorf("%s: %w", p, ErrExists)
		}
	}

	path := s.layout.StoryPath(t, id)
	if err := os.MkdirAll(s.layout.CategoryPath(t), 0o755); err != nil {
		return nil, fmt.Errorf("create category dir: %w", err)
	}
	if err := writeNew(path, story.RenderDocument(h, featureID)); err != nil {
		return nil, err
	}
	st, err := s.read(path, t)
	if err != nil {
		return nil, err
	}
	s.opts.logger.Info("created story", "id", id, "path", path)
	s.record(logging.ActionCreate, st, nil)
	return st, nil
}

func (s *StoryStore) read(path string, t story.Type) (*story.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc := string(data)
	h := story.ParseHeader(doc)
	tasks := story.DecodeTasks(doc)
	return &story.Story{
		ID:          stem(path),
		Title:       h.Title,
		Type:        t,
		Description: h.Description,
		FeatureID:   story.ParseFeatureID(doc),
		Tasks:       tasks,
		Status:      story.DeriveStatus(tasks),
		Labels:      h.Labels,
		Path:        path,
	}, nil
}

func (s *StoryStore) record(action string, st *story.Story, before []story.Task) {
	if s.opts.journal == nil {
		return
	}
	bd, bt := story.Progress(before)
	ad, at := story.Progress(st.Tasks)
	err := s.opts.journal.Append(logging.Entry{
		Action:      action,
		Kind:        kindStory,
		ID:          st.ID,
		Path:        st.Path,
		TasksBefore: logging.Progress{Done: bd, Total: bt},
		TasksAfter:  logging.Progress{Done: ad, Total: at},
		Status:      string(st.Status),
	})
	if err != nil {
		s.opts.logger.Warn("journal append failed", "err", err)
	}
}

// writeNew creates path with content, failing if it exists.
func writeNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
