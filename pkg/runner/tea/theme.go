package teaui

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the report UI.
type Theme struct {
	Panel  PanelTheme
	Editor EditorTheme
	Footer FooterTheme
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame       lipgloss.Style
	FrameActive lipgloss.Style
	FrameError  lipgloss.Style
	Title       lipgloss.Style
	Muted       lipgloss.Style
}

// EditorTheme styles the day editor and the saved list.
type EditorTheme struct {
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Saved        lipgloss.Style
	Row          lipgloss.Style
	RowSelected  lipgloss.Style
}

// FooterTheme groups the status and help line styles.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	focused := lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true)

	return Theme{
		Panel: PanelTheme{
			Frame:       frame,
			FrameActive: frame.BorderForeground(lipgloss.Color("218")),
			FrameError:  frame.BorderForeground(lipgloss.Color("203")),
			Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("153")).Bold(true),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
		Editor: EditorTheme{
			Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
			LabelFocused: focused,
			Saved:        lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
			Row:          lipgloss.NewStyle(),
			RowSelected:  focused,
		},
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
	}
}

func (t Theme) frame(active bool) lipgloss.Style {
	if active {
		return t.Panel.FrameActive
	}
	return t.Panel.Frame
}
