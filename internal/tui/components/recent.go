package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/tui/themes"
)

// RecentListModel is the recent ratings pane. Selecting an entry replays it
// into the builder as an already-rated outfit.
type RecentListModel struct {
	theme   themes.Theme
	ratings []model.Rating
	cursor  int
	width   int
	height  int
	focused bool
}

// NewRecentListModel creates an empty recent ratings list.
func NewRecentListModel(theme themes.Theme) RecentListModel {
	return RecentListModel{theme: theme}
}

// SetRatings replaces the list contents, clamping the cursor.
func (m RecentListModel) SetRatings(ratings []model.Rating) RecentListModel {
	m.ratings = ratings
	if m.cursor >= len(ratings) {
		m.cursor = len(ratings) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

// SetFocused toggles the focus highlight.
func (m RecentListModel) SetFocused(focused bool) RecentListModel {
	m.focused = focused
	return m
}

// Resize adjusts the rendered dimensions.
func (m RecentListModel) Resize(width, height int) RecentListModel {
	m.width = width
	m.height = height
	return m
}

// SelectedRating returns the rating under the cursor, or nil when empty.
func (m RecentListModel) SelectedRating() *model.Rating {
	if len(m.ratings) == 0 || m.cursor >= len(m.ratings) {
		return nil
	}
	r := m.ratings[m.cursor]
	return &r
}

// Update handles navigation keys while the pane has focus.
func (m RecentListModel) Update(msg tea.Msg) (RecentListModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "j", "down":
		if m.cursor < len(m.ratings)-1 {
			m.cursor++
		}
	}

	return m, nil
}

// View renders the recent ratings pane.
func (m RecentListModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Recent Ratings"))
	b.WriteString("\n")

	if len(m.ratings) == 0 {
		b.WriteString(m.theme.StatusPending.Render("Nothing rated yet."))
	}

	maxRows := m.height - 3
	if maxRows < 1 {
		maxRows = len(m.ratings)
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.ratings) && i < start+maxRows; i++ {
		r := m.ratings[i]
		line := fmt.Sprintf("%s %s  %s + %s + %s",
			m.renderStars(r.Stars),
			r.RatedAt.Format("Jan 2"),
			r.ShirtID, r.PantsID, r.ShoesID)
		if i == m.cursor {
			line = m.theme.Selected.Render("▸ " + line)
		} else {
			line = m.theme.Normal.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	box := m.theme.RoundedBox
	if m.focused {
		box = m.theme.FocusedBox
	}
	return box.Width(m.width).Render(b.String())
}

func (m RecentListModel) renderStars(stars int) string {
	var b strings.Builder
	for i := 1; i <= model.MaxRating; i++ {
		if i <= stars {
			b.WriteString(m.theme.StarFilled.Render("★"))
		} else {
			b.WriteString(m.theme.StarEmpty.Render("☆"))
		}
	}
	return b.String()
}
