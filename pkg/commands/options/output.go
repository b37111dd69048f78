package options

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// OutputOptions selects machine-readable output.
type OutputOptions struct {
	JSON   bool
	Format string
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
	cmd.Flags().StringVarP(&po.Format, "output", "o", "",
		"Output format. One of 'json' or 'yaml'; pretty printed when empty.")
}

// Structured reports whether output should be encoded rather than pretty
// printed.
func (o *OutputOptions) Structured() bool {
	return o.JSON || o.Format != ""
}

// Encode writes v to color.Output in the selected format.
func (o *OutputOptions) Encode(v any) error {
	format := strings.ToLower(o.Format)
	if o.JSON {
		format = "json"
	}
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(color.Output, string(b))
	default:
		return fmt.Errorf("unsupported output format %q (expected json or yaml)", o.Format)
	}
	return nil
}

func (o *OutputOptions) HandleError(err error) error {
	if o.Structured() && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		if encErr := o.Encode(out); encErr != nil {
			return err
		}
		return nil
	}
	return err
}
