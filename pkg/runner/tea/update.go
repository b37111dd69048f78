package teaui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/export"
	"tableflip.dev/dailyreport/pkg/store"
)

const shakeFrameDelay = 50 * time.Millisecond

type gateClearMsg struct{}

type shakeTickMsg struct{}

type ackExpiredMsg struct{}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

// Update routes messages to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		return m, nil
	case gateClearMsg:
		if !m.errUntil.IsZero() && !m.opts.Now().Before(m.errUntil) {
			m.gateErr = ""
			m.errUntil = time.Time{}
		}
		return m, nil
	case shakeTickMsg:
		if m.opts.Now().Before(m.shakeUntil) {
			m.shakeFrame++
			return m, shakeTick()
		}
		m.shakeFrame = 0
		m.shakeUntil = time.Time{}
		return m, nil
	case ackExpiredMsg:
		return m, nil
	case exportDoneMsg:
		if msg.err != nil {
			m.warning = "Export failed: " + msg.err.Error()
		} else {
			m.warning = ""
			m.status = fmt.Sprintf("Exported %d report(s) to %s", msg.count, msg.path)
		}
		return m, nil
	case watchStartedMsg:
		if msg.err != nil {
			m.status = "Not watching for changes: " + msg.err.Error()
			return m, nil
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		return m, m.waitForWatch()
	case watchEventMsg:
		m.handleWatchEvent(msg.event)
		return m, m.waitForWatch()
	case watchStoppedMsg:
		m.stopWatch()
		return m, nil
	case tea.KeyPressMsg:
		if m.screen == screenGate {
			return m.updateGate(msg)
		}
		return m.updateMain(msg)
	}

	// Non-key messages such as cursor blinks go to the focused input.
	if m.screen == screenGate {
		var cmd tea.Cmd
		m.password, cmd = m.password.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		switch m.focus {
		case focusCompany:
			var cmd tea.Cmd
			m.company, cmd = m.company.Update(msg)
			cmds = append(cmds, cmd)
		case focusReport:
			var cmd tea.Cmd
			m.report, cmd = m.report.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateGate(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+r":
		m.reveal = !m.reveal
		if m.reveal {
			m.password.EchoMode = textinput.EchoNormal
		} else {
			m.password.EchoMode = textinput.EchoPassword
		}
		return m, nil
	case "enter":
		res := m.opts.Gate.Attempt(m.ctx, m.opts.Session, m.password.Value())
		if res.Unlocked {
			m.gateErr = ""
			m.enterMain()
			if res.Err != nil {
				m.warning = "Unlocked for this window only: " + res.Err.Error()
			}
			return m, startWatchCmd(m.ctx, m.opts.WatchDir)
		}
		m.password.Reset()
		m.gateErr = gateMessage(res.Err)
		now := m.opts.Now()
		m.errUntil = now.Add(res.ErrorFor)
		m.shakeUntil = now.Add(res.ShakeFor)
		m.shakeFrame = 0
		return m, tea.Batch(
			tea.Tick(res.ErrorFor, func(time.Time) tea.Msg { return gateClearMsg{} }),
			shakeTick(),
		)
	}
	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func gateMessage(err error) string {
	if err == nil {
		return ""
	}
	return "Incorrect password. Try again."
}

func shakeTick() tea.Cmd {
	return tea.Tick(shakeFrameDelay, func(time.Time) tea.Msg { return shakeTickMsg{} })
}

func (m Model) updateMain(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.confirmDelete {
		m.confirmDelete = false
		switch key {
		case "y", "Y", "enter":
			return m.deleteSelected()
		}
		m.status = "Delete cancelled."
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	case "ctrl+s":
		return m.save()
	case "ctrl+e":
		return m.exportSelected()
	case "ctrl+a":
		return m.exportAll()
	}

	switch m.focus {
	case focusCompany:
		if key == "esc" {
			m.setFocus(focusCalendar)
			return m, nil
		}
		var cmd tea.Cmd
		m.company, cmd = m.company.Update(msg)
		m.ctrl.SetCompany(m.company.Value())
		return m, cmd
	case focusReport:
		if key == "esc" {
			m.setFocus(focusCalendar)
			return m, nil
		}
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		m.ctrl.SetReport(m.report.Value())
		return m, cmd
	case focusSaved:
		return m.updateSaved(key)
	}
	return m.updateCalendar(key)
}

func (m Model) updateCalendar(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "[", "pgup":
		m.ctrl.NavigatePrev()
		m.cursorToView()
	case "]", "pgdown":
		m.ctrl.NavigateNext()
		m.cursorToView()
	case "t":
		m.cursor = m.ctrl.Today()
		m.syncView()
	case "enter", "space", " ":
		if err := m.ctrl.SelectDate(m.cursor); err != nil {
			if errors.Is(err, app.ErrFutureDate) {
				m.status = "Future dates cannot be selected."
			} else {
				m.warning = err.Error()
			}
			return m, nil
		}
		m.loadDraft()
		m.setFocus(focusCompany)
		m.status = "Editing " + m.cursor.Format() + "."
		return m, nil
	case "d", "delete":
		sel, ok := m.ctrl.Selected()
		if !ok || !m.ctrl.HasEntry(sel) {
			m.status = "Nothing saved for the selected day."
			return m, nil
		}
		m.confirmDelete = true
		m.status = "Delete the report for " + sel.Format() + "? (y/n)"
	case "s":
		if m.ctrl.Total() > 0 {
			m.setFocus(focusSaved)
		}
	}
	return m, nil
}

func (m Model) updateSaved(key string) (tea.Model, tea.Cmd) {
	records := m.ctrl.Entries(store.Descending)
	if len(records) == 0 {
		m.setFocus(focusCalendar)
		return m, nil
	}
	switch key {
	case "esc", "s":
		m.setFocus(focusCalendar)
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.savedIndex > 0 {
			m.savedIndex--
		}
	case "down", "j":
		if m.savedIndex < len(records)-1 {
			m.savedIndex++
		}
	case "enter":
		if m.savedIndex >= len(records) {
			m.savedIndex = len(records) - 1
		}
		rec := records[m.savedIndex]
		if err := m.ctrl.JumpToEntry(rec.Key); err != nil {
			m.warning = err.Error()
			return m, nil
		}
		m.cursor = rec.Key
		m.loadDraft()
		m.setFocus(focusCompany)
		m.status = "Editing " + rec.Key.Format() + "."
	}
	return m, nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if _, ok := m.ctrl.Selected(); !ok {
		m.status = "Select a date first."
		return m, nil
	}
	m.ctrl.SetCompany(m.company.Value())
	m.ctrl.SetReport(m.report.Value())
	if _, err := m.ctrl.SaveDraft(); err != nil {
		if !store.IsPersistenceError(err) {
			m.warning = err.Error()
			return m, nil
		}
		m.warning = "Saved for this session, but it could not be written to disk: " + err.Error()
	} else {
		m.warning = ""
	}
	m.status = ""
	return m, tea.Tick(app.SavedAckDuration, func(time.Time) tea.Msg { return ackExpiredMsg{} })
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	sel, _ := m.ctrl.Selected()
	if err := m.ctrl.DeleteEntry(); err != nil {
		if !store.IsPersistenceError(err) {
			m.warning = err.Error()
			return m, nil
		}
		m.warning = "Deleted for this session, but it could not be written to disk: " + err.Error()
	}
	m.loadDraft()
	m.clampSaved()
	m.status = "Deleted the report for " + sel.Format() + "."
	return m, nil
}

func (m Model) exportSelected() (tea.Model, tea.Cmd) {
	sel, ok := m.ctrl.Selected()
	if !ok || !m.ctrl.HasEntry(sel) {
		m.status = "Save the selected day before exporting it."
		return m, nil
	}
	doc, err := m.ctrl.ExportSelected()
	return m, m.saveDocument(doc, err, 1)
}

func (m Model) exportAll() (tea.Model, tea.Cmd) {
	total := m.ctrl.Total()
	if total == 0 {
		m.status = "No saved reports to export."
		return m, nil
	}
	doc, err := m.ctrl.Export(nil)
	return m, m.saveDocument(doc, err, total)
}

func (m Model) saveDocument(doc *export.Document, err error, count int) tea.Cmd {
	dir := m.opts.OutDir
	return func() tea.Msg {
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := doc.Save(dir)
		return exportDoneMsg{path: path, count: count, err: err}
	}
}

func (m *Model) handleWatchEvent(ev store.Event) {
	if m.ctrl == nil {
		return
	}
	if m.ctrl.Store().Stale() {
		m.warning = "Reports changed in another process; saving will overwrite them."
	}
}

// moveCursor steps the calendar cursor by days and keeps the view on its month.
func (m *Model) moveCursor(days int) {
	t, err := m.cursor.Date(time.Local)
	if err != nil {
		m.cursor = m.ctrl.Today()
		m.syncView()
		return
	}
	m.cursor = datekey.FromTime(t.AddDate(0, 0, days))
	m.syncView()
}

// syncView pages the controller until its view shows the cursor's month.
func (m *Model) syncView() {
	y, mo := m.cursor.Month()
	target := y*12 + mo
	for {
		v := m.ctrl.View()
		cur := v.Year*12 + v.Month
		switch {
		case cur < target:
			m.ctrl.NavigateNext()
		case cur > target:
			m.ctrl.NavigatePrev()
		default:
			return
		}
	}
}

// cursorToView keeps the cursor's day of month after paging, clamped to the
// new month's length.
func (m *Model) cursorToView() {
	v := m.ctrl.View()
	_, _, day, err := m.cursor.Decode()
	if err != nil {
		day = 1
	}
	if n := datekey.DaysIn(v.Year, v.Month); day > n {
		day = n
	}
	m.cursor = datekey.MustEncode(v.Year, v.Month, day)
}

func (m *Model) loadDraft() {
	d := m.ctrl.Draft()
	m.company.SetValue(d.Company)
	m.report.SetValue(d.Report)
}

func (m *Model) clampSaved() {
	if n := m.ctrl.Total(); m.savedIndex >= n {
		m.savedIndex = n - 1
	}
	if m.savedIndex < 0 {
		m.savedIndex = 0
	}
}

func (m *Model) cycleFocus(delta int) {
	order := []focus{focusCalendar}
	if _, ok := m.ctrl.Selected(); ok {
		order = append(order, focusCompany, focusReport)
	}
	if m.ctrl.Total() > 0 {
		order = append(order, focusSaved)
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	m.setFocus(order[idx])
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.company.Blur()
	m.report.Blur()
	switch f {
	case focusCompany:
		m.company.Focus()
	case focusReport:
		m.report.Focus()
	case focusSaved:
		m.clampSaved()
	}
}
