package options

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/datekey"
)

// DateOptions picks the day a command works on.
type DateOptions struct {
	Date string
}

func AddDateArg(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Day to use, example: --date=2024-02-05, --date=today or --date=yesterday. Defaults to today.`)
}

// Key resolves the flag against now.
func (o *DateOptions) Key(now time.Time) (datekey.Key, error) {
	switch strings.ToLower(strings.TrimSpace(o.Date)) {
	case "", "today":
		return datekey.Today(now), nil
	case "yesterday":
		return datekey.Today(now.AddDate(0, 0, -1)), nil
	}
	return datekey.Parse(strings.TrimSpace(o.Date))
}
