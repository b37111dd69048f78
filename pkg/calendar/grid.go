// Package calendar builds month grids and renders them for the terminal.
package calendar

import (
	"time"

	"tableflip.dev/dailyreport/pkg/datekey"
)

// Cell is a day of the month, or Blank for padding before the 1st and after
// the last day.
type Cell int

// Blank marks a padding cell.
const Blank Cell = 0

// IsBlank reports whether c is padding.
func (c Cell) IsBlank() bool { return c == Blank }

// FirstWeekday returns the weekday (0=Sunday) of the first day of the
// zero-based month.
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month+1), 1, 12, 0, 0, 0, time.UTC).Weekday())
}

// Build returns the cells for a month view: leading blanks up to the weekday
// of the 1st, the days, then trailing blanks so the length is a multiple of 7.
func Build(year, month int) []Cell {
	offset := FirstWeekday(year, month)
	days := datekey.DaysIn(year, month)
	total := offset + days
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}
	cells := make([]Cell, total)
	for d := 1; d <= days; d++ {
		cells[offset+d-1] = Cell(d)
	}
	return cells
}

// Weeks splits cells into rows of seven.
func Weeks(cells []Cell) [][]Cell {
	rows := make([][]Cell, 0, (len(cells)+6)/7)
	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, cells[i:end])
	}
	return rows
}

// Shift moves a zero-based month by delta months, carrying into the year.
func Shift(year, month, delta int) (int, int) {
	total := year*12 + month + delta
	y := total / 12
	m := total % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, m
}
