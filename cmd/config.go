package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nibzard/storykit/internal/config"
	"github.com/nibzard/storykit/internal/ui"
)

type configView struct {
	Files   []string       `json:"files" yaml:"files"`
	Fields  []config.Field `json:"fields" yaml:"fields"`
	Unknown []string       `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

func newConfigCommand(a *app) *cobra.Command {
	var example bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration and where each value came from",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if example {
				_, err := io.WriteString(a.stdout, config.ExampleConfig())
				return err
			}
			view := configView{
				Files:   a.cws.Files,
				Fields:  a.cws.Fields(),
				Unknown: a.cws.Unknown,
			}
			if view.Files == nil {
				view.Files = []string{}
			}
			return a.out.Render(view, func(w io.Writer) error {
				writeConfig(w, view)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "print an example storykit.toml")
	return cmd
}

func writeConfig(w io.Writer, view configView) {
	keyWidth := 0
	for _, f := range view.Fields {
		keyWidth = max(keyWidth, len(f.Key))
	}
	for _, f := range view.Fields {
		value := f.Value
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(w, "%s = %s  %s\n", padRight(f.Key, keyWidth), value, ui.Muted("("+string(f.Source)+")"))
	}
	fmt.Fprintln(w)
	if len(view.Files) == 0 {
		fmt.Fprintln(w, "No config files found.")
	} else {
		fmt.Fprintln(w, "Config files:")
		for _, f := range view.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	for _, u := range view.Unknown {
		fmt.Fprintf(w, "Unknown key: %s\n", u)
	}
}
