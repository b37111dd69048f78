package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/commands/options"
	"tableflip.dev/dailyreport/pkg/runner/export"
)

func addExport(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	eo := &options.ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "write reports to a PDF",
		Long: options.Wrap80(`Writes report_<date>.pdf for one day, or all_reports.pdf with --all, ` +
			`into the --out directory.`),
		Example: `
dailyreport export --all
dailyreport export --date 2024-02-05 --out ~/Documents
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := export.Export{Out: eo.Out}
			if !eo.All {
				key, err := do.Key(time.Now())
				if err != nil {
					return err
				}
				n.Filter = &key
			}
			w, err := openWorkspace()
			if err != nil {
				return err
			}
			if n.Controller, err = w.controller(); err != nil {
				return err
			}
			return n.Do(cmd.Context())
		},
	}
	options.AddDateArg(cmd, do)
	options.AddExportArgs(cmd, eo)
	cmd.MarkFlagsMutuallyExclusive("date", "all")
	_ = cmd.RegisterFlagCompletionFunc("date", dateCompletions)

	topLevel.AddCommand(cmd)
}
