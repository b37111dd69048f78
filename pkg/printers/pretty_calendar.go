package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/dailyreport/pkg/calendar"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints the month grid Sunday first. Days with a saved report are
// bold, today is underlined and days after today are faint.
func (pp *PrettyPrint) Month(year, month int, days map[int]calendar.Day) {
	w := pp.out()
	tf := color.New(color.FgWhite, color.Italic)

	m := calendar.Title(year, month)
	mid := (width - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(w, "%s%s\n", strings.Repeat(" ", mid), m)

	h := color.New(color.Faint)
	labels := make([]string, len(calendar.DayLabels))
	for i, l := range calendar.DayLabels {
		labels[i] = l[:2]
	}
	_, _ = h.Fprintln(w, strings.Join(labels, " "))

	for _, week := range calendar.Weeks(calendar.Build(year, month)) {
		for i, cell := range week {
			sep := " "
			if i == len(week)-1 {
				sep = "\n"
			}
			if cell.IsBlank() {
				_, _ = fmt.Fprint(w, "  "+sep)
				continue
			}
			_, _ = dayColor(days[int(cell)]).Fprintf(w, "%2d", int(cell))
			_, _ = fmt.Fprint(w, sep)
		}
	}
	_, _ = fmt.Fprint(w, "\n")
}

func dayColor(d calendar.Day) *color.Color {
	attrs := []color.Attribute{}
	switch {
	case d.IsFuture:
		attrs = append(attrs, color.Faint)
	case d.HasEntry:
		attrs = append(attrs, color.Bold, color.FgHiCyan)
	default:
		attrs = append(attrs, color.FgWhite)
	}
	if d.IsToday {
		attrs = append(attrs, color.Underline)
	}
	if d.IsSelected {
		attrs = append(attrs, color.ReverseVideo)
	}
	return color.New(attrs...)
}
