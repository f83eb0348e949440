package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCommentCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <story-id> <body>",
		Short: "Comment on the GitHub issue a story was imported from",
		Long: "comment posts body on the issue whose number is the story id.\n" +
			"Pass - as the body to read it from standard input.",
		Args: minimumArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.stories.Load(ctx, args[0])
			if err != nil {
				return err
			}
			number, err := strconv.Atoi(st.ID)
			if err != nil || number < 1 {
				return fmt.Errorf("story %q is not named after an issue number", st.ID)
			}

			body := strings.Join(args[1:], " ")
			if body == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read comment body: %w", err)
				}
				body = string(data)
			}
			if strings.TrimSpace(body) == "" {
				return usageErrorf("comment body is empty")
			}

			tracker, err := a.issueTracker()
			if err != nil {
				return err
			}
			gh := a.cfg.GitHub
			if err := tracker.AddIssueComment(ctx, gh.Owner, gh.Repo, number, body); err != nil {
				return fmt.Errorf("comment on issue #%d: %w", number, err)
			}
			a.logger.Info("commented on issue", "number", number, "repo", gh.Repository())

			res := map[string]any{"story_id": st.ID, "issue": number, "repository": gh.Repository()}
			return a.out.Render(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Commented on %s#%d\n", gh.Repository(), number)
				return err
			})
		},
	}
}
