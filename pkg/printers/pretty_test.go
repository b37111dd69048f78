package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/dailyreport/pkg/calendar"
	"tableflip.dev/dailyreport/pkg/entry"
	"tableflip.dev/dailyreport/pkg/store"
)

func plain(t *testing.T) (*PrettyPrint, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	var buf bytes.Buffer
	return &PrettyPrint{Out: &buf, Width: 40}, &buf
}

func TestEntry(t *testing.T) {
	pp, buf := plain(t)
	pp.Entry("2024-02-05", entry.Entry{
		Company: "Acme",
		Report:  "Did X",
		SavedAt: entry.Timestamp{Time: time.Date(2024, 2, 5, 10, 0, 0, 0, time.Local)},
	})
	out := buf.String()
	for _, want := range []string{"Monday, 5 February 2024\n", "Company: Acme\n", "Report:\n", "    Did X\n", "saved 5 Feb 2024, 10:00 am"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestEntryEmptyFields(t *testing.T) {
	pp, buf := plain(t)
	pp.Entry("2024-02-05", entry.Entry{})
	if !strings.Contains(buf.String(), "Company: —") || strings.Contains(buf.String(), "saved") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestList(t *testing.T) {
	pp, buf := plain(t)
	pp.List([]store.Record{
		{Key: "2024-02-05", Entry: entry.Entry{Company: "Acme", Report: "first\nsecond"}},
		{Key: "2024-02-01", Entry: entry.Entry{}},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", lines)
	}
	if !strings.HasPrefix(lines[1], "2024-02-05") || !strings.Contains(lines[1], "first") || strings.Contains(lines[1], "second") {
		t.Fatalf("unexpected row %q", lines[1])
	}

	buf.Reset()
	pp.List(nil)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none, got %q", buf.String())
	}
}

func TestMonth(t *testing.T) {
	pp, buf := plain(t)
	pp.Month(2024, 1, map[int]calendar.Day{5: {HasEntry: true}})
	lines := strings.Split(buf.String(), "\n")
	if strings.TrimSpace(lines[0]) != "February 2024" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if lines[1] != "Su Mo Tu We Th Fr Sa" {
		t.Fatalf("unexpected header %q", lines[1])
	}
	if lines[2] != "             1  2  3" {
		t.Fatalf("unexpected first week %q", lines[2])
	}
	if lines[6] != "25 26 27 28 29      " {
		t.Fatalf("unexpected last week %q", lines[6])
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("  \n"); got != "—" {
		t.Fatalf("Preview(blank) = %q", got)
	}
	if got := Preview("one\ntwo"); got != "one" {
		t.Fatalf("Preview = %q", got)
	}
}
