// Package teaui hosts the Bubble Tea program for the dailyreport TUI.
package teaui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/calendar"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/gate"
	"tableflip.dev/dailyreport/pkg/session"
	"tableflip.dev/dailyreport/pkg/store"
)

// Options wire the TUI to storage.
type Options struct {
	Gate    *gate.Gate
	Session *session.Session
	// Data is the durable KV the report store is opened on after unlock.
	Data     store.KV
	Exporter app.Exporter
	// WatchDir, when set, warns about writes from other processes.
	WatchDir string
	// OutDir receives exported PDFs; defaults to the working directory.
	OutDir string
	Now    func() time.Time
}

type screen int

const (
	screenGate screen = iota
	screenMain
)

type focus int

const (
	focusCalendar focus = iota
	focusCompany
	focusReport
	focusSaved
)

// Model is the root Bubble Tea model.
type Model struct {
	opts Options
	ctx  context.Context

	screen screen
	focus  focus

	// gate screen
	password   textinput.Model
	reveal     bool
	gateErr    string
	errUntil   time.Time
	shakeUntil time.Time
	shakeFrame int

	// main screen
	ctrl          *app.Controller
	cursor        datekey.Key
	company       textinput.Model
	report        textarea.Model
	savedIndex    int
	confirmDelete bool
	status        string
	warning       string

	termWidth  int
	termHeight int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	calOpts calendar.Options
	theme   Theme
}

// New builds the model. A session that is already unlocked skips the gate.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Gate == nil {
		opts.Gate = gate.New("")
	}
	if opts.Session == nil {
		opts.Session = session.Open(nil, nil)
	}
	if opts.Data == nil {
		opts.Data = store.NewMemoryKV()
	}

	pw := textinput.New()
	pw.Placeholder = "Password"
	pw.CharLimit = 256
	pw.Prompt = "🔒 "
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.Styles.Cursor.Color = lipgloss.Color("218")
	pw.Focus()

	company := textinput.New()
	company.Placeholder = "Company or client"
	company.CharLimit = 200
	company.Prompt = ""
	company.Styles.Cursor.Color = lipgloss.Color("218")

	report := textarea.New()
	report.Placeholder = "What did you work on today?"
	report.ShowLineNumbers = false
	report.CharLimit = 0
	report.SetWidth(48)
	report.SetHeight(8)

	m := Model{
		opts:     opts,
		ctx:      ctx,
		screen:   screenGate,
		password: pw,
		company:  company,
		report:   report,
		calOpts:  calendar.DefaultOptions(),
		theme:    DefaultTheme(),
	}
	if opts.Session.Unlocked() {
		m.enterMain()
	}
	return m
}

// Init starts the cursor blink and, when already unlocked, the store watch.
func (m Model) Init() tea.Cmd {
	if m.screen == screenMain {
		return tea.Batch(textinput.Blink, startWatchCmd(m.ctx, m.opts.WatchDir))
	}
	return textinput.Blink
}

// enterMain opens the report store and positions the calendar on today.
func (m *Model) enterMain() {
	var notes []string
	logf := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	reports := m.opts.Session.Reports()
	if reports == nil {
		reports = store.Open(m.opts.Data, store.WithLogf(logf))
		m.opts.Session.Attach(reports)
	}
	m.ctrl = app.New(reports, app.WithClock(m.opts.Now), app.WithExporter(m.opts.Exporter))
	m.cursor = m.ctrl.Today()
	m.screen = screenMain
	m.focus = focusCalendar
	m.password.Reset()
	m.password.Blur()
	m.status = "Pick a day with the arrow keys and press enter."
	if len(notes) > 0 {
		m.warning = "Some saved reports could not be read: " + notes[0]
	}
}

// Run launches the Bubble Tea UI and tears the session down on exit.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if opts.Session != nil {
		shared := opts.Session.Unlocked()
		defer func() {
			// An unlock made inside the UI ends with it.
			if !shared {
				_ = opts.Session.Lock()
			}
			opts.Session.Close()
		}()
	}

	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
