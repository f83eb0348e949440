package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/logging"
)

func newHistoryCommand(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent record mutations from the journal",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j := a.journal
			if j == nil {
				dir, err := logging.FindJournalDir(a.cfg.LogDir, a.cfg.WorkDir)
				if err != nil {
					return err
				}
				j = &logging.Journal{Dir: dir, Path: filepath.Join(dir, logging.JournalFile)}
			}
			entries, err := j.Tail(n)
			if err != nil {
				return err
			}
			return a.out.Render(entries, func(w io.Writer) error {
				writeHistory(w, entries)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to show (0 = all)")
	return cmd
}

func writeHistory(w io.Writer, entries []logging.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No journal entries.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %s %s  %s -> %s",
			e.Time.UTC().Format(time.RFC3339), padRight(e.Action, 6), e.Kind, e.ID, e.TasksBefore, e.TasksAfter)
		if e.Status != "" {
			fmt.Fprintf(w, "  %s", e.Status)
		}
		fmt.Fprintln(w)
	}
}
