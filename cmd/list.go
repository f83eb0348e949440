package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/story"
	"github.com/nibzard/storykit/internal/ui"
)

func newListCommand(a *app) *cobra.Command {
	var typeFlag, statusFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stories with their derived status",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				t   story.Type
				s   story.Status
				err error
			)
			if typeFlag != "" {
				if t, err = story.ParseType(typeFlag); err != nil {
					return usageError(err)
				}
			}
			if statusFlag != "" {
				if s, err = story.ParseStatus(statusFlag); err != nil {
					return usageError(err)
				}
			}

			all, err := a.stories.List(cmd.Context())
			if err != nil {
				return err
			}
			stories := filterStories(all, t, s)
			return a.out.Render(stories, func(w io.Writer) error {
				writeStoryTable(w, stories)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typeFlag, "type", "", "only list one story type (user-story, task, bug)")
	cmd.Flags().StringVar(&statusFlag, "status", "", "only list one status (todo, in-progress, review, done)")
	return cmd
}

func filterStories(all []story.Story, t story.Type, s story.Status) []story.Story {
	out := []story.Story{}
	for _, st := range all {
		if t != "" && st.Type != t {
			continue
		}
		if s != "" && st.Status != s {
			continue
		}
		out = append(out, st)
	}
	return out
}

func writeStoryTable(w io.Writer, stories []story.Story) {
	if len(stories) == 0 {
		fmt.Fprintln(w, "No stories found.")
		return
	}
	idWidth, typeWidth := len("ID"), len("TYPE")
	for _, st := range stories {
		idWidth = max(idWidth, len(st.ID))
		typeWidth = max(typeWidth, len(st.Type))
	}
	const statusWidth = len("in-progress")
	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		padRight("ID", idWidth), padRight("TYPE", typeWidth), padRight("STATUS", statusWidth), padRight("TASKS", 5), "TITLE")
	for _, st := range stories {
		done, total := story.Progress(st.Tasks)
		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			padRight(st.ID, idWidth),
			padRight(string(st.Type), typeWidth),
			padRight(ui.StatusBadge(st.Status), statusWidth),
			padRight(fmt.Sprintf("%d/%d", done, total), 5),
			st.Title)
	}
}
