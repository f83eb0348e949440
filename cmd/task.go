package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/story"
)

// taskResult is the structured output of a task mutation.
type taskResult struct {
	StoryID string       `json:"story_id" yaml:"story_id"`
	Path    string       `json:"path" yaml:"path"`
	Task    story.Task   `json:"task" yaml:"task"`
	Status  story.Status `json:"status" yaml:"status"`
	Done    int          `json:"done" yaml:"done"`
	Total   int          `json:"total" yaml:"total"`
}

func newTaskCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, complete, reopen, or link checklist tasks",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <story-id> <description>",
			Short: "Append a task to a story",
			Args:  minimumArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				description := strings.Join(args[1:], " ")
				return a.mutateTask(cmd.Context(), args[0], "Added", func(st *story.Story) (int, error) {
					t, err := st.AddTask(description)
					if err != nil {
						return 0, usageError(err)
					}
					return t.ID, nil
				})
			},
		},
		&cobra.Command{
			Use:   "done <story-id> <task-number>",
			Short: "Mark a task completed",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.setCompleted(cmd.Context(), args, true)
			},
		},
		&cobra.Command{
			Use:   "undo <story-id> <task-number>",
			Short: "Mark a task open again",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.setCompleted(cmd.Context(), args, false)
			},
		},
		&cobra.Command{
			Use:   "link <story-id> <task-number> <pr-number>",
			Short: "Link a task to a pull request",
			Args:  exactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := parseNumber("task number", args[1])
				if err != nil {
					return err
				}
				pr, err := parseNumber("pull request number", args[2])
				if err != nil {
					return err
				}
				return a.mutateTask(cmd.Context(), args[0], "Linked", func(st *story.Story) (int, error) {
					return n, st.LinkPR(n, pr)
				})
			},
		},
	)
	return cmd
}

func (a *app) setCompleted(ctx context.Context, args []string, completed bool) error {
	n, err := parseNumber("task number", args[1])
	if err != nil {
		return err
	}
	verb := "Completed"
	if !completed {
		verb = "Reopened"
	}
	return a.mutateTask(ctx, args[0], verb, func(st *story.Story) (int, error) {
		return n, st.SetCompleted(n, completed)
	})
}

// mutateTask loads a story, applies fn, and saves the checklist back.
func (a *app) mutateTask(ctx context.Context, id, verb string, fn func(*story.Story) (int, error)) error {
	st, err := a.stories.Load(ctx, id)
	if err != nil {
		return err
	}
	n, err := fn(st)
	if err != nil {
		return err
	}
	if err := a.stories.Save(ctx, st); err != nil {
		return err
	}

	done, total := story.Progress(st.Tasks)
	res := taskResult{
		StoryID: st.ID,
		Path:    st.Path,
		Task:    *st.Task(n),
		Status:  st.Status,
		Done:    done,
		Total:   total,
	}
	return a.out.Render(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s task %d of %s: %s %s%s\nStory %s is %s (%d/%d tasks done)\n",
			verb, res.Task.ID, res.StoryID, checkbox(res.Task.Completed), res.Task.Description, prSuffix(res.Task.PRNumber),
			res.StoryID, res.Status, res.Done, res.Total)
		return err
	})
}

// parseNumber accepts "7" and "#7".
func parseNumber(what, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n < 1 {
		return 0, usageErrorf("invalid %s %q", what, s)
	}
	return n, nil
}
