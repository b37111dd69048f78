// Package app is the report session controller shared by the TUI, the CLI
// and the MCP server. It owns the calendar view, the selected day and the
// draft being edited, and writes through to the report store.
package app

import (
	"errors"
	"time"

	"tableflip.dev/dailyreport/pkg/calendar"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
	"tableflip.dev/dailyreport/pkg/export"
	"tableflip.dev/dailyreport/pkg/store"
)

var (
	ErrNoSelection = errors.New("app: no date selected")
	ErrNoEntry     = errors.New("app: no saved report for the selected date")
	ErrFutureDate  = errors.New("app: date is in the future")
)

// SavedAckDuration is how long the saved acknowledgement stays visible.
const SavedAckDuration = 2500 * time.Millisecond

// Exporter renders reports to a document.
type Exporter interface {
	Export(reports store.Reports, filter *datekey.Key) (*export.Document, error)
}

// View is the month shown by the calendar. Month is zero-based.
type View struct {
	Year  int
	Month int
}

// Title returns the heading for the view, e.g. "February 2024".
func (v View) Title() string {
	return calendar.Title(v.Year, v.Month)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithExporter replaces the default PDF renderer.
func WithExporter(e Exporter) Option {
	return func(c *Controller) {
		if e != nil {
			c.exporter = e
		}
	}
}

// Controller is not safe for concurrent use; the store it wraps is.
type Controller struct {
	store    *store.Store
	now      func() time.Time
	exporter Exporter

	view     View
	selected *datekey.Key
	draft    entry.Draft
	ackAt    time.Time
}

// New starts on the current month with nothing selected.
func New(reports *store.Store, opts ...Option) *Controller {
	c := &Controller{
		store:    reports,
		now:      time.Now,
		exporter: export.NewRenderer(export.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	now := c.now()
	c.view = View{Year: now.Year(), Month: int(now.Month()) - 1}
	return c
}

// Store returns the backing report store.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Today is the key of the current local day.
func (c *Controller) Today() datekey.Key {
	return datekey.Today(c.now())
}

// View returns the month currently displayed.
func (c *Controller) View() View {
	return c.view
}

// NavigatePrev moves the view one month back. The selection is unchanged.
func (c *Controller) NavigatePrev() {
	c.view.Year, c.view.Month = calendar.Shift(c.view.Year, c.view.Month, -1)
}

// NavigateNext moves the view one month forward. The selection is unchanged.
func (c *Controller) NavigateNext() {
	c.view.Year, c.view.Month = calendar.Shift(c.view.Year, c.view.Month, 1)
}

// SelectDate selects key and loads its saved entry, or an empty draft, into
// the editor. Days after today are rejected with ErrFutureDate and leave the
// state untouched.
func (c *Controller) SelectDate(key datekey.Key) error {
	if _, err := datekey.Parse(string(key)); err != nil {
		return err
	}
	if key.After(c.Today()) {
		return ErrFutureDate
	}
	c.selectKey(key)
	return nil
}

// SelectDay selects a day of the viewed month.
func (c *Controller) SelectDay(day int) error {
	key, err := datekey.Encode(c.view.Year, c.view.Month, day)
	if err != nil {
		return err
	}
	return c.SelectDate(key)
}

// JumpToEntry moves the view to the month of key and selects it without the
// future-date check, so any saved entry can be opened.
func (c *Controller) JumpToEntry(key datekey.Key) error {
	y, m, _, err := key.Decode()
	if err != nil {
		return err
	}
	c.view = View{Year: y, Month: m}
	c.selectKey(key)
	return nil
}

func (c *Controller) selectKey(key datekey.Key) {
	k := key
	c.selected = &k
	c.draft = entry.Draft{}
	if e, ok := c.store.Get(key); ok {
		c.draft = e.Draft()
	}
	c.ackAt = time.Time{}
}

// Selected returns the selected key, if any.
func (c *Controller) Selected() (datekey.Key, bool) {
	if c.selected == nil {
		return "", false
	}
	return *c.selected, true
}

// ClearSelection deselects the current day and drops the draft.
func (c *Controller) ClearSelection() {
	c.selected = nil
	c.draft = entry.Draft{}
	c.ackAt = time.Time{}
}

// Draft returns the in-progress content for the selected day.
func (c *Controller) Draft() entry.Draft {
	return c.draft
}

// EditDraft replaces the draft. Nothing is persisted.
func (c *Controller) EditDraft(d entry.Draft) {
	c.draft = d
}

// SetCompany updates the draft company.
func (c *Controller) SetCompany(company string) {
	c.draft.Company = company
}

// SetReport updates the draft report body.
func (c *Controller) SetReport(report string) {
	c.draft.Report = report
}

// SaveDraft stores the draft for the selected day, stamped with the current
// time, and starts the saved acknowledgement. A *store.PersistenceError is a
// warning: the entry is saved for this session but may not survive a
// restart.
func (c *Controller) SaveDraft() (entry.Entry, error) {
	if c.selected == nil {
		return entry.Entry{}, ErrNoSelection
	}
	now := c.now()
	e := entry.New(c.draft, now)
	err := c.store.Upsert(*c.selected, e)
	if err != nil && !store.IsPersistenceError(err) {
		return entry.Entry{}, err
	}
	c.ackAt = now
	return e, err
}

// SavedAck reports whether the saved acknowledgement is still showing.
func (c *Controller) SavedAck() bool {
	if c.ackAt.IsZero() {
		return false
	}
	return c.now().Sub(c.ackAt) < SavedAckDuration
}

// DeleteEntry removes the saved entry for the selected day and clears the
// draft. The selection is kept.
func (c *Controller) DeleteEntry() error {
	if c.selected == nil {
		return ErrNoSelection
	}
	if !c.store.Has(*c.selected) {
		return ErrNoEntry
	}
	err := c.store.Remove(*c.selected)
	c.draft = entry.Draft{}
	c.ackAt = time.Time{}
	return err
}

// HasEntry reports whether key has a saved entry.
func (c *Controller) HasEntry(key datekey.Key) bool {
	return c.store.Has(key)
}

// Total is the number of saved entries.
func (c *Controller) Total() int {
	return c.store.Len()
}

// Entries lists saved entries in key order.
func (c *Controller) Entries(order store.Order) []store.Record {
	return c.store.List(order)
}

// GridCell is one cell of the viewed month. Blank cells have Day 0 and an
// empty Key.
type GridCell struct {
	Day   int
	Key   datekey.Key
	Flags calendar.Day
}

// Grid returns the viewed month laid out Sunday first, with blanks padding
// the first and last weeks.
func (c *Controller) Grid() []GridCell {
	today := c.Today()
	cells := calendar.Build(c.view.Year, c.view.Month)
	out := make([]GridCell, len(cells))
	for i, cell := range cells {
		if cell.IsBlank() {
			continue
		}
		key := datekey.MustEncode(c.view.Year, c.view.Month, int(cell))
		out[i] = GridCell{
			Day:   int(cell),
			Key:   key,
			Flags: calendar.Day{
				HasEntry:   c.store.Has(key),
				IsToday:    key == today,
				IsSelected: c.selected != nil && *c.selected == key,
				IsFuture:   key.After(today),
			},
		}
	}
	return out
}

// Days returns the decorations of the viewed month keyed by day, in the
// form calendar.Render takes.
func (c *Controller) Days() map[int]calendar.Day {
	days := make(map[int]calendar.Day)
	for _, cell := range c.Grid() {
		if cell.Day != 0 {
			days[cell.Day] = cell.Flags
		}
	}
	return days
}

// Export renders the saved entries, or only filter when it is set.
func (c *Controller) Export(filter *datekey.Key) (*export.Document, error) {
	return c.exporter.Export(c.store.Reports(), filter)
}

// ExportSelected renders the selected day alone.
func (c *Controller) ExportSelected() (*export.Document, error) {
	if c.selected == nil {
		return nil, ErrNoSelection
	}
	key := *c.selected
	return c.Export(&key)
}
