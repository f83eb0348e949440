package cmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/prompts"
	"github.com/nibzard/storykit/internal/story"
)

type promptResult struct {
	StoryID  string `json:"story_id" yaml:"story_id"`
	Template string `json:"template" yaml:"template"`
	Prompt   string `json:"prompt" yaml:"prompt"`
}

func newPromptCommand(a *app) *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "prompt <story-id>",
		Short: "Render an assistant prompt for a story",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.stories.Load(ctx, args[0])
			if err != nil {
				return err
			}
			var feature *story.Feature
			if st.FeatureID != "" {
				feature, err = a.features.Load(ctx, st.FeatureID)
				if err != nil {
					if !errors.Is(err, story.ErrNotFound) {
						return err
					}
					a.logger.Warn("story references a missing feature", "story", st.ID, "feature", st.FeatureID)
					feature = nil
				}
			}

			renderer := prompts.NewRenderer(prompts.NewStore(a.cfg.PromptDir))
			text, err := renderer.Render(template, prompts.NewData(st, feature, a.now()))
			if err != nil {
				return err
			}
			res := promptResult{StoryID: st.ID, Template: template, Prompt: text}
			return a.out.Render(res, func(w io.Writer) error {
				_, err := io.WriteString(w, text)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", prompts.ImplementPrompt, "prompt template (implement, plan, or an override name)")
	return cmd
}
