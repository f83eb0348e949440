package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/story"
	"github.com/nibzard/storykit/internal/ui"
)

func newBoardCommand(a *app) *cobra.Command {
	var (
		typeFlag string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show stories in a live terminal board grouped by status",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []ui.BoardOption{ui.WithRefreshInterval(interval)}
			if typeFlag != "" {
				t, err := story.ParseType(typeFlag)
				if err != nil {
					return usageError(err)
				}
				opts = append(opts, ui.WithTypeFilter(t))
			}
			return ui.RunBoard(cmd.Context(), a.stories, opts...)
		},
	}
	cmd.Flags().StringVar(&typeFlag, "type", "", "only show one story type")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "refresh interval")
	return cmd
}
