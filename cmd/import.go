package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/story"
)

func newImportCommand(a *app) *cobra.Command {
	var typeFlag, featureFlag, idFlag string
	cmd := &cobra.Command{
		Use:   "import <issue-number>",
		Short: "Create a story record from a GitHub issue",
		Long: "import fetches an issue with gh and writes it as a new story record.\n" +
			"The record id defaults to the issue number. Existing records are never overwritten.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			number, err := parseNumber("issue number", args[0])
			if err != nil {
				return err
			}
			t, err := story.ParseType(typeFlag)
			if err != nil {
				return usageError(err)
			}
			if featureFlag != "" {
				if _, err := a.features.Load(ctx, featureFlag); err != nil {
					return err
				}
			}
			id := idFlag
			if id == "" {
				id = strconv.Itoa(number)
			}

			tracker, err := a.issueTracker()
			if err != nil {
				return err
			}
			gh := a.cfg.GitHub
			issue, err := tracker.FetchIssue(ctx, gh.Owner, gh.Repo, number)
			if err != nil {
				return fmt.Errorf("fetch issue #%d: %w", number, err)
			}
			a.logger.Debug("fetched issue", "number", issue.Number, "state", issue.State)

			st, err := a.stories.Create(ctx, t, id, issue.Header(), featureFlag)
			if err != nil {
				return err
			}
			return a.out.Render(st, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Imported issue #%d as %s %s\n%s\n", number, st.Type, st.ID, st.Path)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&typeFlag, "type", string(story.TypeUserStory), "story type (user-story, task, bug)")
	cmd.Flags().StringVar(&featureFlag, "feature", "", "feature the story belongs to")
	cmd.Flags().StringVar(&idFlag, "id", "", "record id (default: the issue number)")
	return cmd
}
