package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/story"
)

func newFeatureCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Inspect feature records",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List features",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				features, err := a.features.List(cmd.Context())
				if err != nil {
					return err
				}
				return a.out.Render(features, func(w io.Writer) error {
					writeFeatureTable(w, features)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a feature and the stories that reference it",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := a.features.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				all, err := a.stories.List(cmd.Context())
				if err != nil {
					return err
				}
				view := featureView{Feature: f, Stories: []story.Story{}}
				for _, st := range all {
					if st.FeatureID == f.ID {
						view.Stories = append(view.Stories, st)
					}
				}
				return a.out.Render(view, func(w io.Writer) error {
					writeFeature(w, view)
					return nil
				})
			},
		},
	)
	return cmd
}

type featureView struct {
	Feature *story.Feature `json:"feature" yaml:"feature"`
	Stories []story.Story  `json:"stories" yaml:"stories"`
}

func writeFeatureTable(w io.Writer, features []story.Feature) {
	if len(features) == 0 {
		fmt.Fprintln(w, "No features found.")
		return
	}
	idWidth := len("ID")
	for _, f := range features {
		idWidth = max(idWidth, len(f.ID))
	}
	fmt.Fprintf(w, "%s  %s  %s\n", padRight("ID", idWidth), "TITLE", "LABELS")
	for _, f := range features {
		fmt.Fprintf(w, "%s  %s  %s\n", padRight(f.ID, idWidth), f.Title, strings.Join(f.Labels, ", "))
	}
}

func writeFeature(w io.Writer, view featureView) {
	f := view.Feature
	fmt.Fprintf(w, "feature %s: %s\n", f.ID, f.Title)
	fmt.Fprintf(w, "Path:    %s\n", f.Path)
	if len(f.Labels) > 0 {
		fmt.Fprintf(w, "Labels:  %s\n", strings.Join(f.Labels, ", "))
	}
	if f.Description != "" {
		fmt.Fprintf(w, "\n%s\n", f.Description)
	}
	fmt.Fprintln(w)
	if len(view.Stories) == 0 {
		fmt.Fprintln(w, "No stories reference this feature.")
		return
	}
	fmt.Fprintln(w, "Stories:")
	writeStoryTable(w, view.Stories)
}
