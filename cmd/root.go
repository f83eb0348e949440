// Package cmd implements the storykit command line.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/config"
	"github.com/nibzard/storykit/internal/issues"
	"github.com/nibzard/storykit/internal/logging"
	"github.com/nibzard/storykit/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app is the state shared by every command of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// loadOpts seeds config loading; Flags is filled in per command.
	loadOpts   config.LoadOptions
	newTracker func(cfg *config.Config, logger *log.Logger) (issues.Tracker, error)
	now        func() time.Time

	cws      *config.ConfigWithSources
	cfg      *config.Config
	logger   *log.Logger
	journal  *logging.Journal
	stories  *store.StoryStore
	features *store.FeatureStore
	out      *OutputFormatter
	tracker  issues.Tracker
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		newTracker: newGHTracker,
		now:        time.Now,
	}
}

func newGHTracker(cfg *config.Config, logger *log.Logger) (issues.Tracker, error) {
	return issues.NewGHTracker(issues.GHOptions{
		Binary:      cfg.GitHub.Binary,
		MaxAttempts: cfg.GitHub.MaxAttempts,
		Runner:      issues.ExecRunner{Dir: cfg.WorkDir},
		Logger:      logger,
	})
}

// Run executes the storykit CLI.
func Run(ctx context.Context, args []string) error {
	return newApp(os.Stdin, os.Stdout, os.Stderr).run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) error {
	root := newRootCommand(a)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "storykit",
		Short: "Manage markdown story and feature records",
		Long: "storykit keeps user stories, tasks, bugs, and features as markdown files\n" +
			"and edits their task checklists without touching the surrounding text.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newTaskCommand(a),
		newFeatureCommand(a),
		newImportCommand(a),
		newCommentCommand(a),
		newPromptCommand(a),
		newBoardCommand(a),
		newDoctorCommand(a),
		newHistoryCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration once and builds the components commands share.
func (a *app) setup(cmd *cobra.Command) error {
	opts := a.loadOpts
	opts.Flags = cmd.Flags()
	cws, err := config.LoadWithSources(opts)
	if err != nil {
		return usageError(err)
	}
	cfg := cws.Config
	a.cws, a.cfg = cws, cfg
	a.logger = logging.NewFromConfig(a.stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	for _, key := range cws.Unknown {
		a.logger.Warn("unknown config key", "key", key)
	}

	storeOpts := []store.Option{
		store.WithLogger(a.logger),
		store.WithFeatureLabels(cfg.FeatureLabels),
	}
	if cfg.Journal {
		j, err := logging.OpenJournal(cfg.LogDir, cfg.WorkDir)
		if err != nil {
			a.logger.Warn("journal disabled", "err", err)
		} else {
			a.journal = j
			storeOpts = append(storeOpts, store.WithJournal(j))
		}
	}

	layout := store.NewLayout(cfg.RecordsDir)
	a.stories = store.NewStoryStore(layout, storeOpts...)
	a.features = store.NewFeatureStore(layout, storeOpts...)
	a.out = &OutputFormatter{Format: cfg.Format, Writer: a.stdout}
	a.logger.Debug("config loaded", "records_dir", cfg.RecordsDir, "files", cws.Files)
	return nil
}

// issueTracker returns the tracker and the configured repository.
func (a *app) issueTracker() (issues.Tracker, error) {
	if a.cfg.GitHub.Repository() == "" {
		return nil, usageError(errors.New("no GitHub repository configured: set github.owner and github.repo, or pass --repo owner/name"))
	}
	if a.tracker != nil {
		return a.tracker, nil
	}
	t, err := a.newTracker(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.tracker = t
	return t, nil
}

// exactArgs is cobra.ExactArgs with usage exit codes.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(cobra.ExactArgs(n)(cmd, args))
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(cobra.MinimumNArgs(n)(cmd, args))
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	return usageError(cobra.NoArgs(cmd, args))
}
