package app

import (
	"errors"
	"testing"
	"time"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
	"tableflip.dev/dailyreport/pkg/export"
	"tableflip.dev/dailyreport/pkg/store"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

type brokenKV struct {
	*store.MemoryKV
}

func (brokenKV) Write(string, []byte) error { return errors.New("quota exceeded") }

type recordingExporter struct {
	filters []*datekey.Key
	reports store.Reports
}

func (r *recordingExporter) Export(reports store.Reports, filter *datekey.Key) (*export.Document, error) {
	r.filters = append(r.filters, filter)
	r.reports = reports
	return &export.Document{Filename: export.Filename(filter)}, nil
}

func newController(t *testing.T, now time.Time, opts ...Option) (*Controller, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: now}
	s := store.Open(store.NewMemoryKV(), store.WithLogf(t.Logf))
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(s, opts...), clock
}

var feb5 = time.Date(2024, time.February, 5, 9, 0, 0, 0, time.Local)

func TestNewStartsOnCurrentMonth(t *testing.T) {
	c, _ := newController(t, feb5)
	if v := c.View(); v.Year != 2024 || v.Month != 1 {
		t.Fatalf("unexpected view %+v", v)
	}
	if _, ok := c.Selected(); ok {
		t.Fatalf("nothing should be selected")
	}
	if c.View().Title() != "February 2024" {
		t.Fatalf("unexpected title %q", c.View().Title())
	}
}

func TestNavigateWrapsYears(t *testing.T) {
	c, _ := newController(t, time.Date(2023, time.December, 10, 0, 0, 0, 0, time.Local))
	if err := c.SelectDate("2023-12-10"); err != nil {
		t.Fatalf("select: %v", err)
	}
	c.NavigateNext()
	if v := c.View(); v.Year != 2024 || v.Month != 0 {
		t.Fatalf("expected January 2024, got %+v", v)
	}
	c.NavigatePrev()
	c.NavigatePrev()
	if v := c.View(); v.Year != 2023 || v.Month != 10 {
		t.Fatalf("expected November 2023, got %+v", v)
	}
	if key, _ := c.Selected(); key != "2023-12-10" {
		t.Fatalf("navigation changed the selection to %q", key)
	}
}

func TestSelectDateRejectsFuture(t *testing.T) {
	c, _ := newController(t, feb5)
	if err := c.SelectDate("2024-02-04"); err != nil {
		t.Fatalf("select past: %v", err)
	}
	c.SetCompany("kept")

	if err := c.SelectDate("2024-02-06"); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
	if key, _ := c.Selected(); key != "2024-02-04" {
		t.Fatalf("selection changed to %q", key)
	}
	if c.Draft().Company != "kept" {
		t.Fatalf("draft changed on rejected selection")
	}

	if err := c.SelectDate("2024-02-05"); err != nil {
		t.Fatalf("today should be selectable: %v", err)
	}
	if err := c.SelectDate("2024-02-30"); !errors.Is(err, datekey.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSelectDayUsesView(t *testing.T) {
	c, _ := newController(t, feb5)
	c.NavigatePrev()
	if err := c.SelectDay(31); err != nil {
		t.Fatalf("select day: %v", err)
	}
	if key, _ := c.Selected(); key != "2024-01-31" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestSaveDraft(t *testing.T) {
	c, clock := newController(t, feb5)
	if _, err := c.SaveDraft(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	if err := c.SelectDate("2024-02-05"); err != nil {
		t.Fatalf("select: %v", err)
	}
	c.SetCompany("Acme")
	c.SetReport("Did X")
	first, err := c.SaveDraft()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !c.SavedAck() {
		t.Fatalf("expected saved acknowledgement")
	}
	clock.Advance(SavedAckDuration - time.Millisecond)
	if !c.SavedAck() {
		t.Fatalf("acknowledgement should still show")
	}
	clock.Advance(time.Millisecond)
	if c.SavedAck() {
		t.Fatalf("acknowledgement should have expired")
	}

	second, err := c.SaveDraft()
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.Company != first.Company || second.Report != first.Report {
		t.Fatalf("content changed between saves: %+v %+v", first, second)
	}
	if !second.SavedAt.After(first.SavedAt.Time) {
		t.Fatalf("savedAt should advance")
	}
	if c.Total() != 1 {
		t.Fatalf("expected one entry, got %d", c.Total())
	}
	got, _ := c.Store().Get("2024-02-05")
	if !got.Equal(second) {
		t.Fatalf("store has %+v, want %+v", got, second)
	}
}

func TestSavedEntrySurvivesReload(t *testing.T) {
	kv := store.NewMemoryKV()
	now := time.Date(2024, time.February, 5, 10, 0, 0, 123456789, time.UTC)
	c := New(store.Open(kv, store.WithLogf(t.Logf)), WithClock(func() time.Time { return now }))

	if err := c.SelectDate("2024-02-05"); err != nil {
		t.Fatalf("select: %v", err)
	}
	c.SetCompany("Acme")
	c.SetReport("Did X")
	saved, err := c.SaveDraft()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if want := now.Truncate(time.Millisecond); !saved.SavedAt.Equal(want) {
		t.Fatalf("savedAt = %v, want %v", saved.SavedAt, want)
	}

	reopened := store.Open(kv, store.WithLogf(t.Logf))
	got, ok := reopened.Get("2024-02-05")
	if !ok {
		t.Fatalf("entry missing after reload")
	}
	if !got.Equal(saved) {
		t.Fatalf("reloaded %+v, saved %+v", got, saved)
	}
	if c.Store().Stale() {
		t.Fatalf("store should match what it wrote")
	}
}

func TestSelectLoadsSavedEntry(t *testing.T) {
	c, _ := newController(t, feb5)
	_ = c.SelectDate("2024-02-01")
	c.EditDraft(entry.Draft{Company: "Acme", Report: "line1\nline2"})
	if _, err := c.SaveDraft(); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = c.SelectDate("2024-02-02")
	if !c.Draft().IsEmpty() {
		t.Fatalf("expected empty draft for a new day")
	}
	if c.SavedAck() {
		t.Fatalf("selection should clear the acknowledgement")
	}
	_ = c.SelectDate("2024-02-01")
	if d := c.Draft(); d.Company != "Acme" || d.Report != "line1\nline2" {
		t.Fatalf("unexpected draft %+v", d)
	}
}

func TestSaveDraftPersistenceWarning(t *testing.T) {
	clock := &fakeClock{t: feb5}
	s := store.Open(brokenKV{store.NewMemoryKV()}, store.WithLogf(t.Logf))
	c := New(s, WithClock(clock.Now))
	_ = c.SelectDate("2024-02-05")
	c.SetCompany("Acme")

	_, err := c.SaveDraft()
	if !store.IsPersistenceError(err) {
		t.Fatalf("expected persistence warning, got %v", err)
	}
	if !c.HasEntry("2024-02-05") {
		t.Fatalf("entry should be kept in memory")
	}
	if !c.SavedAck() {
		t.Fatalf("save should still be acknowledged")
	}
}

func TestDeleteEntry(t *testing.T) {
	c, _ := newController(t, feb5)
	if err := c.DeleteEntry(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	_ = c.SelectDate("2024-02-05")
	if err := c.DeleteEntry(); !errors.Is(err, ErrNoEntry) {
		t.Fatalf("expected ErrNoEntry, got %v", err)
	}

	c.SetCompany("Acme")
	if _, err := c.SaveDraft(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := c.DeleteEntry(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if c.HasEntry("2024-02-05") || c.Total() != 0 {
		t.Fatalf("entry should be gone")
	}
	if !c.Draft().IsEmpty() {
		t.Fatalf("draft should be cleared")
	}
	if key, ok := c.Selected(); !ok || key != "2024-02-05" {
		t.Fatalf("selection should be kept, got %q %v", key, ok)
	}
}

func TestJumpToEntryBypassesFutureCheck(t *testing.T) {
	c, _ := newController(t, feb5)
	if err := c.Store().Upsert("2024-06-01", entry.Entry{Company: "Later"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := c.JumpToEntry("2024-06-01"); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if v := c.View(); v.Year != 2024 || v.Month != 5 {
		t.Fatalf("view not moved: %+v", v)
	}
	if c.Draft().Company != "Later" {
		t.Fatalf("draft not loaded: %+v", c.Draft())
	}
}

func TestGridFlags(t *testing.T) {
	c, _ := newController(t, feb5)
	_ = c.Store().Upsert("2024-02-01", entry.Entry{Company: "Acme"})
	_ = c.SelectDate("2024-02-03")

	grid := c.Grid()
	if len(grid) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(grid))
	}
	for i := 0; i < 4; i++ {
		if grid[i].Day != 0 || grid[i].Key != "" {
			t.Fatalf("cell %d should be blank: %+v", i, grid[i])
		}
	}
	first := grid[4]
	if first.Day != 1 || !first.Flags.HasEntry || first.Flags.IsFuture {
		t.Fatalf("unexpected first day %+v", first)
	}
	if !grid[6].Flags.IsSelected {
		t.Fatalf("day 3 should be selected")
	}
	if !grid[8].Flags.IsToday {
		t.Fatalf("day 5 should be today")
	}
	if !grid[9].Flags.IsFuture {
		t.Fatalf("day 6 should be in the future")
	}
	if days := c.Days(); len(days) != 29 || !days[1].HasEntry {
		t.Fatalf("unexpected days map: %d entries", len(days))
	}
}

func TestExport(t *testing.T) {
	rec := &recordingExporter{}
	c, _ := newController(t, feb5, WithExporter(rec))
	_ = c.Store().Upsert("2024-02-05", entry.Entry{Company: "Acme", Report: "Did X"})

	if _, err := c.ExportSelected(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	doc, err := c.Export(nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.Filename != "all_reports.pdf" || rec.filters[0] != nil || len(rec.reports) != 1 {
		t.Fatalf("unexpected export: %q %v", doc.Filename, rec.filters)
	}

	_ = c.SelectDate("2024-02-05")
	doc, err = c.ExportSelected()
	if err != nil {
		t.Fatalf("export selected: %v", err)
	}
	if doc.Filename != "report_2024-02-05.pdf" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}
}
