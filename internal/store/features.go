package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/storykit/internal/story"
)

const kindFeature = "feature"

// FeatureStore loads feature records. Features have no checklist.
type FeatureStore struct {
	layout Layout
	opts   options
}

// NewFeatureStore returns a store over the features directory of layout.
func NewFeatureStore(layout Layout, opts ...Option) *FeatureStore {
	return &FeatureStore{layout: layout, opts: buildOptions(opts)}
}

func (s *FeatureStore) dirs() []string {
	return []string{s.layout.FeaturesPath()}
}

// Locate returns the backing file of the feature id.
func (s *FeatureStore) Locate(id string) (string, error) {
	if err := validateID(kindFeature, id); err != nil {
		return "", err
	}
	rf, ok := locate(s.dirs(), id)
	if !ok {
		return "", &story.NotFoundError{Kind: kindFeature, ID: id, Candidates: candidates(s.dirs())}
	}
	s.opts.logger.Debug("located feature", "id", id, "path", rf.Path)
	return rf.Path, nil
}

// Load locates and parses the feature id.
func (s *FeatureStore) Load(ctx context.Context, id string) (*story.Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Locate(id)
	if err != nil {
		return nil, err
	}
	return s.read(path)
}

// List returns every feature sorted by id. A missing features directory
// yields no features.
func (s *FeatureStore) List(ctx context.Context) ([]story.Feature, error) {
	features := []story.Feature{}
	paths, err := listRecordFiles(s.layout.FeaturesPath())
	if err != nil {
		if !errors.Is(err, errMissingDir) {
			s.opts.logger.Warn("skipping features", "err", err)
		}
		return features, nil
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := s.read(p)
		if err != nil {
			s.opts.logger.Warn("skipping unreadable feature", "path", p, "err", err)
			continue
		}
		features = append(features, *f)
	}
	return features, nil
}

func (s *FeatureStore) read(path string) (*story.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	h := story.ParseHeader(string(data))
	labels := h.Labels
	if len(labels) == 0 {
		labels = append([]string{}, s.opts.featureLabels...)
	}
	return &story.Feature{
		ID:          stem(path),
		Title:       h.Title,
		Description: h.Description,
		Labels:      labels,
		Path:        path,
	}, nil
}
