package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/story"
	"github.com/nibzard/storykit/internal/ui"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a story and its checklist",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.stories.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.Render(st, func(w io.Writer) error {
				writeStory(w, st)
				return nil
			})
		},
	}
}

func writeStory(w io.Writer, st *story.Story) {
	done, total := story.Progress(st.Tasks)
	fmt.Fprintf(w, "%s %s: %s\n", st.Type, st.ID, st.Title)
	fmt.Fprintf(w, "Status:  %s (%d/%d tasks done)\n", ui.StatusBadge(st.Status), done, total)
	fmt.Fprintf(w, "Path:    %s\n", st.Path)
	if len(st.Labels) > 0 {
		fmt.Fprintf(w, "Labels:  %s\n", strings.Join(st.Labels, ", "))
	}
	if st.FeatureID != "" {
		fmt.Fprintf(w, "Feature: %s\n", st.FeatureID)
	}
	if summary := story.Summary(st.Description); summary != "" {
		fmt.Fprintf(w, "\n%s\n", summary)
	}
	fmt.Fprintln(w)
	if len(st.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	fmt.Fprintln(w, "Tasks:")
	for _, t := range st.Tasks {
		fmt.Fprintf(w, "  %d. %s %s%s\n", t.ID, checkbox(t.Completed), t.Description, prSuffix(t.PRNumber))
	}
}
