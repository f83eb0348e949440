package store

import (
	"github.com/charmbracelet/log"

	"github.com/nibzard/storykit/internal/logging"
)

// Option configures a store.
type Option func(*options)

type options struct {
	logger        *log.Logger
	journal       *logging.Journal
	featureLabels []string
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithJournal records successful mutations in j.
func WithJournal(j *logging.Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

// WithFeatureLabels sets the labels given to features that declare none.
func WithFeatureLabels(labels []string) Option {
	return func(o *options) {
		o.featureLabels = append([]string(nil), labels...)
	}
}

// DefaultFeatureLabels are used when no feature labels are configured.
var DefaultFeatureLabels = []string{"feature"}

func buildOptions(opts []Option) options {
	o := options{
		logger:        logging.Discard(),
		featureLabels: DefaultFeatureLabels,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
