package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/prompts"
	"github.com/nibzard/storykit/internal/store"
	"github.com/nibzard/storykit/internal/story"
	"github.com/nibzard/storykit/internal/utils"
)

// Check outcomes.
const (
	checkOK   = "ok"
	checkWarn = "warn"
	checkFail = "fail"
)

// check is one doctor finding.
type check struct {
	Name   string `json:"name" yaml:"name"`
	Result string `json:"result" yaml:"result"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

type doctorReport struct {
	OK     bool    `json:"ok" yaml:"ok"`
	Checks []check `json:"checks" yaml:"checks"`
}

func (r *doctorReport) add(name, result, format string, args ...any) {
	r.Checks = append(r.Checks, check{Name: name, Result: result, Detail: fmt.Sprintf(format, args...)})
	if result == checkFail {
		r.OK = false
	}
}

func newDoctorCommand(a *app) *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, record directories, documents, and the gh binary",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fix {
				if err := a.stories.Layout().Init(); err != nil {
					return err
				}
				a.logger.Info("created record directories", "root", a.stories.Layout().Root)
			}
			report := a.diagnose(cmd.Context())
			if err := a.out.Render(report, func(w io.Writer) error {
				writeReport(w, report)
				return nil
			}); err != nil {
				return err
			}
			if !report.OK {
				return &ExitError{Code: ExitFailure, Err: errors.New("doctor checks failed")}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "create missing record directories before checking")
	return cmd
}

func (a *app) diagnose(ctx context.Context) doctorReport {
	cfg := a.cfg
	r := doctorReport{OK: true}

	if len(a.cws.Unknown) > 0 {
		r.add("config", checkWarn, "unknown keys: %s", strings.Join(a.cws.Unknown, "; "))
	} else {
		r.add("config", checkOK, "%d file(s) loaded", len(a.cws.Files))
	}

	layout := a.stories.Layout()
	if info, err := os.Stat(layout.Root); err != nil {
		r.add("records root", checkFail, "%s: %v", layout.Root, err)
	} else if !info.IsDir() {
		r.add("records root", checkFail, "%s is not a directory", layout.Root)
	} else {
		r.add("records root", checkOK, "%s", layout.Root)
	}
	checkDir(&r, "features", layout.FeaturesPath())
	for _, c := range layout.Categories() {
		checkDir(&r, store.CategoryDirName(c.Type), c.Dir)
	}

	checkDocuments(ctx, &r, a.stories)
	checkBinary(&r, cfg.GitHub.Binary)

	if repo := cfg.GitHub.Repository(); repo == "" {
		r.add("repository", checkWarn, "not configured; import and comment are unavailable")
	} else {
		r.add("repository", checkOK, "%s", repo)
	}

	checkPromptDir(&r, cfg.PromptDir)

	if a.journal != nil {
		r.add("journal", checkOK, "%s", a.journal.Path)
	} else if cfg.Journal {
		r.add("journal", checkWarn, "could not open journal under %s", cfg.LogDir)
	} else {
		r.add("journal", checkOK, "disabled")
	}
	return r
}

func checkDir(r *doctorReport, name, dir string) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.add(name, checkWarn, "%s does not exist", dir)
	case err != nil:
		r.add(name, checkFail, "%s: %v", dir, err)
	case !info.IsDir():
		r.add(name, checkFail, "%s is not a directory", dir)
	default:
		entries, _ := filepath.Glob(filepath.Join(dir, "*"+store.RecordExt))
		r.add(name, checkOK, "%s (%d records)", dir, len(entries))
	}
}

// checkDocuments reports stories whose checklist could not be written back.
func checkDocuments(ctx context.Context, r *doctorReport, stories *store.StoryStore) {
	all, err := stories.List(ctx)
	if err != nil {
		r.add("documents", checkFail, "%v", err)
		return
	}
	var bad []string
	for _, st := range all {
		data, err := os.ReadFile(st.Path)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%s: %v", st.Path, err))
			continue
		}
		doc := string(data)
		if _, err := story.MergeTasks(doc, story.DecodeTasks(doc)); err != nil {
			bad = append(bad, fmt.Sprintf("%s: %v", st.Path, err))
		}
	}
	if len(bad) > 0 {
		r.add("documents", checkFail, "%d of %d stories cannot be updated:\n%s", len(bad), len(all), strings.Join(bad, "\n"))
		return
	}
	r.add("documents", checkOK, "%d stories", len(all))
}

func checkBinary(r *doctorReport, binary string) {
	const name = "gh binary"
	if strings.ContainsRune(binary, os.PathSeparator) || strings.ContainsRune(binary, '/') {
		info, err := os.Stat(binary)
		switch {
		case err != nil:
			r.add(name, checkWarn, "%s: %v", binary, err)
		case info.IsDir():
			r.add(name, checkWarn, "%s is a directory", binary)
		case !utils.IsExecutableFile(binary):
			r.add(name, checkWarn, "%s is not executable", binary)
		default:
			r.add(name, checkOK, "%s", binary)
		}
		return
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		r.add(name, checkWarn, "%s not found in PATH; import and comment are unavailable", binary)
		return
	}
	r.add(name, checkOK, "%s", resolved)
}

func checkPromptDir(r *doctorReport, dir string) {
	const name = "prompts"
	if dir == "" {
		r.add(name, checkOK, "bundled templates")
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		r.add(name, checkFail, "prompt_dir %s is not a directory", dir)
		return
	}
	ps := prompts.NewStore(dir)
	var overrides []string
	for _, p := range prompts.Names() {
		if _, source, err := ps.Load(p); err != nil {
			r.add(name, checkFail, "%s: %v", p, err)
			return
		} else if source != "bundled" {
			overrides = append(overrides, p)
		}
	}
	if len(overrides) == 0 {
		r.add(name, checkOK, "%s (no overrides)", dir)
		return
	}
	r.add(name, checkOK, "%s overrides %s", dir, strings.Join(overrides, ", "))
}

func writeReport(w io.Writer, r doctorReport) {
	fmt.Fprintln(w, "storykit doctor")
	fmt.Fprintln(w)
	for _, c := range r.Checks {
		icon := "✅"
		switch c.Result {
		case checkWarn:
			icon = "⚠️ "
		case checkFail:
			icon = "❌"
		}
		fmt.Fprintf(w, "%s %s: %s\n", icon, c.Name, c.Detail)
	}
	fmt.Fprintln(w)
	if r.OK {
		fmt.Fprintln(w, "All checks passed.")
		return
	}
	fmt.Fprintln(w, "Some checks failed.")
}
