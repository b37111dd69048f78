// Package get prints saved reports and the report calendar.
package get

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/printers"
	"tableflip.dev/dailyreport/pkg/store"
)

// Encoder writes structured output instead of pretty printing.
type Encoder interface {
	Encode(v any) error
}

// Show prints the report saved for one day.
type Show struct {
	Reports *store.Store
	Key     datekey.Key
	Encoder Encoder
	Printer *printers.PrettyPrint
}

func (n *Show) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Reports == nil {
		return errors.New("can not show, no store")
	}
	e, ok := n.Reports.Get(n.Key)
	if !ok {
		return fmt.Errorf("%w: %s", app.ErrNoEntry, n.Key)
	}
	if n.Encoder != nil {
		return n.Encoder.Encode(app.NewReportDTO(n.Key, e))
	}
	printerOrDefault(n.Printer).Entry(n.Key, e)
	return nil
}

// List prints saved reports, newest first. A non-nil Month limits the list
// to that month and a non-nil Since drops days before it.
type List struct {
	Reports *store.Store
	Month   *app.View
	Since   *datekey.Key
	Full    bool
	Encoder Encoder
	Printer *printers.PrettyPrint
}

func (n *List) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Reports == nil {
		return errors.New("can not list, no store")
	}
	records := n.Reports.List(store.Descending)
	if n.Month != nil {
		records = inMonth(records, *n.Month)
	}
	if n.Since != nil {
		records = since(records, *n.Since)
	}

	if n.Encoder != nil {
		return n.Encoder.Encode(app.ReportDTOs(records))
	}

	pp := printerOrDefault(n.Printer)
	pp.NewLine()
	title := "Saved reports"
	if n.Month != nil {
		title = n.Month.Title()
	}
	if n.Since != nil {
		title += " since " + n.Since.Format()
	}
	pp.TitleWithCount(title, len(records))
	if !n.Full {
		pp.List(records)
		return nil
	}
	for _, r := range records {
		pp.Entry(r.Key, r.Entry)
	}
	return nil
}

func inMonth(records []store.Record, v app.View) []store.Record {
	out := make([]store.Record, 0, len(records))
	for _, r := range records {
		if y, m := r.Key.Month(); y == v.Year && m == v.Month {
			out = append(out, r)
		}
	}
	return out
}

func since(records []store.Record, first datekey.Key) []store.Record {
	out := make([]store.Record, 0, len(records))
	for _, r := range records {
		if !first.After(r.Key) {
			out = append(out, r)
		}
	}
	return out
}

// Calendar prints a month grid marking days with saved reports.
type Calendar struct {
	Controller *app.Controller
	// Offset moves the view from the current month, e.g. -1 for last month.
	Offset int
	// Month, when set, overrides Offset.
	Month   *app.View
	Printer *printers.PrettyPrint
}

func (n *Calendar) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Controller == nil {
		return errors.New("can not show calendar, no controller")
	}
	c := n.Controller
	switch {
	case n.Month != nil:
		if err := c.JumpToEntry(datekey.MustEncode(n.Month.Year, n.Month.Month, 1)); err != nil {
			return err
		}
		c.ClearSelection()
	default:
		for i := 0; i < n.Offset; i++ {
			c.NavigateNext()
		}
		for i := 0; i > n.Offset; i-- {
			c.NavigatePrev()
		}
	}

	v := c.View()
	pp := printerOrDefault(n.Printer)
	pp.NewLine()
	pp.Month(v.Year, v.Month, c.Days())
	pp.TitleWithCount("Saved", c.Total())
	return nil
}

func printerOrDefault(pp *printers.PrettyPrint) *printers.PrettyPrint {
	if pp != nil {
		return pp
	}
	return &printers.PrettyPrint{}
}
