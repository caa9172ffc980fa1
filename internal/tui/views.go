package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return m.renderLoading()
	}

	if m.showHelp {
		return m.renderHelp()
	}

	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.wardrobe.View(),
		m.outfitPanel.View(m.session),
	)

	bottom := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.statsPanel.View(m.historyVM),
		m.recentList.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		top,
		bottom,
		m.renderStatusBar(),
	)
}

// renderLoading shows the startup screen until the first catalog load lands.
func (m Model) renderLoading() string {
	return m.theme.Box.Render(
		m.theme.Title.Render("loom") + "\n" +
			m.theme.StatusPending.Render("Loading your wardrobe..."),
	)
}

// renderHelp shows the full key binding reference.
func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("%s  %s\n",
				m.theme.Bold.Render(fmt.Sprintf("%-12s", h.Key)),
				m.theme.Normal.Render(h.Desc)))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Subtitle.Render("Press ? or Esc to close"))
	return m.theme.RoundedBox.Render(b.String())
}

// renderStatusBar shows the transient status line, or the short help when
// nothing is pending.
func (m Model) renderStatusBar() string {
	if m.confirmDelete != nil {
		return m.theme.StatusWarning.Render(
			fmt.Sprintf(" Delete %s? It disappears from every outfit. (y/N) ", m.confirmDelete.ClothingID))
	}

	if m.status != "" {
		style := m.theme.StatusInfo
		switch m.statusLevel {
		case statusSuccess:
			style = m.theme.StatusSuccess
		case statusWarning:
			style = m.theme.StatusWarning
		case statusError:
			style = m.theme.StatusError
		}
		return style.Render(" " + m.status + " ")
	}

	var parts []string
	for _, binding := range m.keymap.ShortHelp() {
		h := binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return m.theme.Subtitle.Render(" " + strings.Join(parts, " · ") + " ")
}
