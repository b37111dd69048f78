package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/commands/options"
	"tableflip.dev/dailyreport/pkg/runner/add"
)

func addSave(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	var company, report, reportFile string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "save the report for a day",
		Long: options.Wrap80(`Creates or replaces the report for a day. Flags that are not given keep ` +
			`what is already saved. Days after today cannot be saved.`),
		Example: `
dailyreport save --company Acme --report "Reviewed the release plan"
git log --since=midnight --oneline | dailyreport save --company Acme --report -
dailyreport save --date yesterday --report-file notes.txt
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := do.Key(time.Now())
			if err != nil {
				return err
			}
			n := add.Save{Key: key}
			if cmd.Flags().Changed("company") {
				n.Company = &company
			}
			switch {
			case cmd.Flags().Changed("report-file"):
				b, err := os.ReadFile(reportFile)
				if err != nil {
					return fmt.Errorf("read report file: %w", err)
				}
				body := string(b)
				n.Report = &body
			case cmd.Flags().Changed("report") && report == "-":
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read report from stdin: %w", err)
				}
				body := string(b)
				n.Report = &body
			case cmd.Flags().Changed("report"):
				n.Report = &report
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
	cmd.Flags().StringVar(&company, "company", "", "Company or client worked for.")
	cmd.Flags().StringVar(&report, "report", "", `Report body; "-" reads it from stdin.`)
	cmd.Flags().StringVar(&reportFile, "report-file", "", "Read the report body from a file.")
	cmd.MarkFlagsMutuallyExclusive("report", "report-file")
	_ = cmd.RegisterFlagCompletionFunc("date", dateCompletions)

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "delete the report saved for a day",
		Example: `
dailyreport delete --date 2024-02-05
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := do.Key(time.Now())
			if err != nil {
				return err
			}
			w, err := openWorkspace()
			if err != nil {
				return err
			}
			c, err := w.controller()
			if err != nil {
				return err
			}
			n := add.Delete{Controller: c, Key: key}
			return n.Do(cmd.Context())
		},
	}
	options.AddDateArg(cmd, do)
	_ = cmd.RegisterFlagCompletionFunc("date", dateCompletions)

	topLevel.AddCommand(cmd)
}
