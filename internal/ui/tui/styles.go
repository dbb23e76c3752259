package tui

import "github.com/charmbracelet/lipgloss"

var styles = newPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// palette is a small stylesheet of named [lipgloss.Style] fields.
type palette struct {
	title     lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
	help      lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	pane      lipgloss.Style
	focusPane lipgloss.Style
}

func newPalette(t, s, e, w, h string) *palette {
	return &palette{
		title:     newBold(t).MarginBottom(1),
		ok:        newBold(s),
		err:       newBold(e),
		warn:      newStyle(w),
		help:      newEm(h),
		tab:       newStyle(h).Padding(0, 1),
		activeTab: newBold(t).Padding(0, 1).Underline(true),
		pane:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)),
		focusPane: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)),
	}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(fg string) lipgloss.Style {
	return newStyle(fg).Bold(true)
}

func newEm(fg string) lipgloss.Style {
	return newStyle(fg).Italic(true)
}
