package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// MonthNames are the English month names indexed by zero-based month.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DayLabels are the weekday column headings, Sunday first.
var DayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Day describes the decorations of a single rendered day.
type Day struct {
	HasEntry   bool
	IsToday    bool
	IsSelected bool
	IsFuture   bool
	IsCursor   bool
}

// Options controls calendar styling.
type Options struct {
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	FutureStyle   lipgloss.Style
	CursorStyle   lipgloss.Style
	ShowTitle     bool
	ShowHeader    bool
}

// DefaultOptions returns the styling used by the report UI.
func DefaultOptions() Options {
	return Options{
		TitleStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("153")).Bold(true),
		HeaderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true),
		EmptyStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		EntryStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("153")).Bold(true),
		TodayStyle:    lipgloss.NewStyle().Underline(true),
		SelectedStyle: lipgloss.NewStyle().Background(lipgloss.Color("67")).Foreground(lipgloss.Color("231")),
		FutureStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		CursorStyle:   lipgloss.NewStyle().Reverse(true),
		ShowTitle:     true,
		ShowHeader:    true,
	}
}

// Title returns "February 2024" for the zero-based month.
func Title(year, month int) string {
	return fmt.Sprintf("%s %d", MonthNames[month], year)
}

// Render produces a multi-line month view. days is keyed by day of month.
func Render(year, month int, days map[int]Day, opts Options) string {
	var lines []string
	if opts.ShowTitle {
		lines = append(lines, opts.TitleStyle.Render(Title(year, month)))
	}
	if opts.ShowHeader {
		labels := make([]string, len(DayLabels))
		for i, l := range DayLabels {
			labels[i] = l[:2]
		}
		lines = append(lines, opts.HeaderStyle.Render(strings.Join(labels, " ")))
	}

	for _, week := range Weeks(Build(year, month)) {
		cells := make([]string, 0, 7)
		for _, c := range week {
			if c.IsBlank() {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			cells = append(cells, renderDay(days[int(c)], int(c), opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func renderDay(info Day, day int, opts Options) string {
	text := fmt.Sprintf("%2d", day)

	style := opts.EmptyStyle
	if info.HasEntry {
		style = opts.EntryStyle
	}
	if info.IsFuture {
		style = opts.FutureStyle
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsSelected {
		style = style.Inherit(opts.SelectedStyle)
	}
	if info.IsCursor {
		style = style.Inherit(opts.CursorStyle)
	}
	return style.Render(text)
}
