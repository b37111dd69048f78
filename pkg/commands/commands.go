package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/commands/options"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "dailyreport",
		Short: options.Wrap80("Keep a private journal of daily work reports and export them to PDF."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addUnlock(topLevel)
	addLock(topLevel)
	addHash(topLevel)
	addCalendar(topLevel)
	addShow(topLevel)
	addSave(topLevel)
	addDelete(topLevel)
	addList(topLevel)
	addExport(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
