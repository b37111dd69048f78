// Package printers renders reports and calendars for the terminal.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
	"tableflip.dev/dailyreport/pkg/store"
)

// PrettyPrint writes colored output to Out, or color.Output when unset.
type PrettyPrint struct {
	Out io.Writer
	// Width wraps report bodies; zero means 80 columns.
	Width int
}

const (
	bodyIndent   = 4
	previewWidth = 48
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " report")
	default:
		_, _ = c.Fprintln(pp.out(), " reports")
	}
}

// Entry prints one saved report with its long date heading.
func (pp *PrettyPrint) Entry(key datekey.Key, e entry.Entry) {
	band := color.New(color.Bold, color.FgHiCyan)
	label := color.New(color.Bold, color.FgCyan)
	faint := color.New(color.Faint)
	w := pp.out()

	_, _ = band.Fprintln(w, key.Format())
	_, _ = label.Fprint(w, "Company: ")
	_, _ = fmt.Fprintln(w, orDash(e.Company))
	_, _ = label.Fprintln(w, "Report:")
	_, _ = fmt.Fprintln(w, pp.body(e.Report))
	if !e.SavedAt.IsZero() {
		_, _ = faint.Fprintf(w, "saved %s\n", e.SavedAt.Local().Format("2 Jan 2006, 3:04 pm"))
	}
	pp.NewLine()
}

func (pp *PrettyPrint) body(report string) string {
	wrapped := wordwrap.String(orDash(report), pp.width()-bodyIndent)
	return indent.String(wrapped, bodyIndent)
}

// List prints saved reports as a table, one row per day.
func (pp *PrettyPrint) List(records []store.Record) {
	if len(records) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = previewWidth
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Company"), bold.Sprint("Report"))
	for _, r := range records {
		tbl.AddRow(string(r.Key), orDash(r.Entry.Company), Preview(r.Entry.Report))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Warning prints a non-fatal problem, such as a failed write.
func (pp *PrettyPrint) Warning(format string, args ...any) {
	y := color.New(color.FgYellow)
	_, _ = y.Fprintf(pp.out(), "warning: "+format+"\n", args...)
}

// Success prints a confirmation line.
func (pp *PrettyPrint) Success(format string, args ...any) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprintf(pp.out(), format+"\n", args...)
}

// Preview is the first line of a report, for lists.
func Preview(report string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(report), "\n")
	if line == "" {
		return "—"
	}
	return line
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
