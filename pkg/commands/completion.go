package commands

import (
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(dailyreport completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(dailyreport completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// dateCompletions offers the days that have saved reports, newest first.
func dateCompletions(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	w, err := openWorkspace()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := w.reports()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := []string{"today", "yesterday"}
	for _, r := range s.List(store.Descending) {
		out = append(out, string(r.Key))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
