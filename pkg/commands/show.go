package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/commands/options"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/runner/get"
	"tableflip.dev/dailyreport/pkg/timeutil"
)

func addShow(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "print the report saved for a day",
		Example: `
dailyreport show
dailyreport show --date yesterday
dailyreport show --date 2024-02-05 --json
`,
		Args: cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := do.Key(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			w, err := openWorkspace()
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := w.reports()
			if err != nil {
				return oo.HandleError(err)
			}
			n := get.Show{Reports: s, Key: key}
			if oo.Structured() {
				n.Encoder = oo
			}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}
	options.AddDateArg(cmd, do)
	options.AddOutputArg(cmd, oo)
	_ = cmd.RegisterFlagCompletionFunc("date", dateCompletions)

	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command) {
	month := ""
	window := ""
	full := false

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list saved reports, newest first",
		Example: `
dailyreport list
dailyreport list --month 2024-02 --full
dailyreport list --since 2w
dailyreport list -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseMonth(month)
			if err != nil {
				return oo.HandleError(err)
			}
			w, err := openWorkspace()
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := w.reports()
			if err != nil {
				return oo.HandleError(err)
			}
			n := get.List{Reports: s, Month: view, Full: full}
			if cmd.Flags().Changed("since") {
				days, _, err := timeutil.ParseWindow(window)
				if err != nil {
					return oo.HandleError(err)
				}
				first := timeutil.Since(time.Now(), days)
				n.Since = &first
			}
			if oo.Structured() {
				n.Encoder = oo
			}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Only list reports of a month, example: --month=2024-02.")
	cmd.Flags().StringVar(&window, "since", "", "Only list the last days, example: --since=2w or --since=10d.")
	cmd.Flags().BoolVar(&full, "full", false, "Print every report in full instead of a table.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addCalendar(topLevel *cobra.Command) {
	prev := 0

	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "show a month with the days that have saved reports",
		Example: `
dailyreport calendar
dailyreport calendar 2024-02
dailyreport calendar --prev 1
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view *app.View
			if len(args) == 1 {
				v, err := parseMonth(args[0])
				if err != nil {
					return err
				}
				view = v
			}
			w, err := openWorkspace()
			if err != nil {
				return err
			}
			c, err := w.controller()
			if err != nil {
				return err
			}
			n := get.Calendar{Controller: c, Offset: -prev, Month: view}
			return n.Do(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&prev, "prev", "p", 0, "Show the month this many months before the current one.")

	topLevel.AddCommand(cmd)
}

// parseMonth reads YYYY-MM; empty yields nil.
func parseMonth(s string) (*app.View, error) {
	if s == "" {
		return nil, nil
	}
	key, err := datekey.Parse(s + "-01")
	if err != nil {
		return nil, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	y, m := key.Month()
	return &app.View{Year: y, Month: m}, nil
}
