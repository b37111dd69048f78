package teaui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/dailyreport/pkg/calendar"
	"tableflip.dev/dailyreport/pkg/store"
)

// shakeOffsets is the horizontal jitter applied per frame after a failed
// unlock.
var shakeOffsets = []int{0, 2, 4, 2, 0, 2, 4, 2, 0}

func (m Model) gateFrame() lipgloss.Style {
	if m.gateErr != "" {
		return m.theme.Panel.FrameError
	}
	return m.theme.Panel.Frame
}

// View renders the active screen.
func (m Model) View() string {
	if m.screen == screenGate {
		return m.viewGate()
	}
	return m.viewMain()
}

func (m Model) viewGate() string {
	var b strings.Builder
	b.WriteString(m.theme.Panel.Title.Render("Daily Work Report"))
	b.WriteString("\n")
	b.WriteString(m.theme.Panel.Muted.Render("Enter the password to open your reports."))
	b.WriteString("\n\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")
	if m.gateErr != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Footer.Error.Render(m.gateErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	reveal := "show"
	if m.reveal {
		reveal = "hide"
	}
	b.WriteString(m.theme.Panel.Muted.Render(fmt.Sprintf("enter unlock · ctrl+r %s password · esc quit", reveal)))

	box := m.gateFrame().Render(b.String())
	if !m.shakeUntil.IsZero() {
		offset := shakeOffsets[m.shakeFrame%len(shakeOffsets)]
		box = lipgloss.NewStyle().MarginLeft(offset).Render(box)
	}
	return box
}

func (m Model) viewMain() string {
	header := m.theme.Panel.Title.Render("Daily Work Report") +
		m.theme.Panel.Muted.Render(fmt.Sprintf(" · %d saved", m.ctrl.Total()))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.frame(m.focus == focusCalendar).Render(m.viewCalendar()),
		" ",
		m.viewEditor(),
	)

	parts := []string{header, body}
	if saved := m.viewSaved(); saved != "" {
		parts = append(parts, saved)
	}
	parts = append(parts, m.viewStatus(), m.theme.Footer.Help.Render(m.helpLine()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewCalendar() string {
	view := m.ctrl.View()
	days := m.ctrl.Days()
	if y, mo := m.cursor.Month(); y == view.Year && mo == view.Month {
		_, _, d, err := m.cursor.Decode()
		if err == nil {
			info := days[d]
			info.IsCursor = true
			days[d] = info
		}
	}
	return calendar.Render(view.Year, view.Month, days, m.calOpts)
}

func (m Model) viewEditor() string {
	sel, ok := m.ctrl.Selected()
	if !ok {
		return m.theme.frame(false).Render(m.theme.Panel.Muted.Render("Select a date to write a report."))
	}
	companyLabel, reportLabel := m.theme.Editor.Label, m.theme.Editor.Label
	switch m.focus {
	case focusCompany:
		companyLabel = m.theme.Editor.LabelFocused
	case focusReport:
		reportLabel = m.theme.Editor.LabelFocused
	}
	lines := []string{
		m.theme.Panel.Title.Render(sel.Format()),
		"",
		companyLabel.Render("Company"),
		m.company.View(),
		"",
		reportLabel.Render("Report"),
		m.report.View(),
	}
	if m.ctrl.SavedAck() {
		lines = append(lines, "", m.theme.Editor.Saved.Render("✓ Saved"))
	}
	active := m.focus == focusCompany || m.focus == focusReport
	return m.theme.frame(active).Render(strings.Join(lines, "\n"))
}

func (m Model) viewSaved() string {
	records := m.ctrl.Entries(store.Descending)
	if len(records) == 0 {
		return ""
	}
	lines := []string{m.theme.Editor.Label.Render("Saved reports")}
	for i, rec := range records {
		line := fmt.Sprintf("%s  %s", rec.Key.Format(), rec.Entry.Company)
		if m.focus == focusSaved && i == m.savedIndex {
			line = m.theme.Editor.RowSelected.Render("› " + line)
		} else {
			line = m.theme.Editor.Row.Render("  " + line)
		}
		lines = append(lines, line)
	}
	return m.theme.frame(m.focus == focusSaved).Render(strings.Join(lines, "\n"))
}

func (m Model) viewStatus() string {
	var lines []string
	if m.warning != "" {
		lines = append(lines, m.theme.Footer.Warning.Render(m.warning))
	}
	if m.status != "" {
		lines = append(lines, m.theme.Footer.Status.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpLine() string {
	switch m.focus {
	case focusCompany, focusReport:
		return "tab next field · ctrl+s save · ctrl+e export day · esc calendar"
	case focusSaved:
		return "↑/↓ move · enter open · esc calendar"
	}
	help := "←/→/↑/↓ move · [/] month · t today · enter select · d delete · s saved"
	if m.ctrl.Total() > 0 {
		help += " · ctrl+a export all"
	}
	return help + " · q quit"
}
