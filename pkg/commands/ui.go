package commands

import (
	"github.com/spf13/cobra"

	teaui "tableflip.dev/dailyreport/pkg/runner/tea"
	"tableflip.dev/dailyreport/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
dailyreport ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace()
			if err != nil {
				return err
			}
			data, err := store.NewDiskKV(w.cfg.BasePath())
			if err != nil {
				return err
			}
			return teaui.Run(cmd.Context(), teaui.Options{
				Gate:     w.gate,
				Session:  w.session,
				Data:     data,
				Exporter: w.renderer(),
				WatchDir: data.BasePath(),
			})
		},
	}

	topLevel.AddCommand(cmd)
}
