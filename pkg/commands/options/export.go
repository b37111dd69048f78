package options

import (
	"github.com/spf13/cobra"
)

// ExportOptions choose where PDFs are written.
type ExportOptions struct {
	Out string
	All bool
}

func AddExportArgs(cmd *cobra.Command, o *ExportOptions) {
	cmd.Flags().StringVar(&o.Out, "out", ".",
		"Directory to write the PDF into.")
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Export every saved report instead of a single day.")
}
