// Package components holds the focusable panes of the TUI.
package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/tui/themes"
)

// roleFilters is the cycle order of the wardrobe filter. The empty value
// shows every role.
var roleFilters = []model.ItemType{"", model.ItemShirt, model.ItemPants, model.ItemShoes}

// WardrobeListModel is the scrollable catalog pane.
type WardrobeListModel struct {
	theme     themes.Theme
	items     []model.WardrobeItem
	filter    model.ItemType
	filterIdx int
	cursor    int
	width     int
	height    int
	focused   bool
}

// NewWardrobeListModel creates an empty wardrobe list.
func NewWardrobeListModel(theme themes.Theme) WardrobeListModel {
	return WardrobeListModel{theme: theme}
}

// SetItems replaces the catalog contents, clamping the cursor.
func (m WardrobeListModel) SetItems(items []model.WardrobeItem) WardrobeListModel {
	m.items = items
	m.clampCursor()
	return m
}

// RemoveItem drops one item locally after a confirmed delete, avoiding a
// full refetch just to update the list.
func (m WardrobeListModel) RemoveItem(clothingID string) WardrobeListModel {
	kept := m.items[:0:0]
	for _, it := range m.items {
		if it.ClothingID != clothingID {
			kept = append(kept, it)
		}
	}
	m.items = kept
	m.clampCursor()
	return m
}

// SetFocused toggles the focus highlight.
func (m WardrobeListModel) SetFocused(focused bool) WardrobeListModel {
	m.focused = focused
	return m
}

// Resize adjusts the rendered dimensions.
func (m WardrobeListModel) Resize(width, height int) WardrobeListModel {
	m.width = width
	m.height = height
	return m
}

// SelectedItem returns the item under the cursor, or nil for an empty view.
func (m WardrobeListModel) SelectedItem() *model.WardrobeItem {
	visible := m.visibleItems()
	if len(visible) == 0 || m.cursor >= len(visible) {
		return nil
	}
	item := visible[m.cursor]
	return &item
}

// Filter returns the active role filter, empty for all roles.
func (m WardrobeListModel) Filter() model.ItemType {
	return m.filter
}

// Update handles navigation keys while the pane has focus.
func (m WardrobeListModel) Update(msg tea.Msg) (WardrobeListModel, tea.Cmd) {
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
		if m.cursor < len(m.visibleItems())-1 {
			m.cursor++
		}
	case "h", "left":
		m.filterIdx = (m.filterIdx + len(roleFilters) - 1) % len(roleFilters)
		m.filter = roleFilters[m.filterIdx]
		m.cursor = 0
	case "l", "right":
		m.filterIdx = (m.filterIdx + 1) % len(roleFilters)
		m.filter = roleFilters[m.filterIdx]
		m.cursor = 0
	}

	return m, nil
}

// View renders the wardrobe pane.
func (m WardrobeListModel) View() string {
	var b strings.Builder

	title := "Wardrobe"
	if m.filter != "" {
		title = fmt.Sprintf("Wardrobe · %s", m.filter.Title())
	}
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")

	visible := m.visibleItems()
	if len(visible) == 0 {
		b.WriteString(m.theme.StatusPending.Render("No items. Add some with `loom wardrobe add`."))
		return b.String()
	}

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = len(visible)
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(visible) && i < start+maxRows; i++ {
		item := visible[i]
		line := fmt.Sprintf("%s %-7s %s", roleIcon(item.ItemType), item.ItemType, item.ClothingID)
		if item.DominantColor != "" {
			line += m.theme.Italic.Render("  " + item.DominantColor)
		}
		if i == m.cursor {
			line = m.theme.Selected.Render("▸ " + line)
		} else {
			line = m.theme.Normal.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("%d items", len(visible))))

	box := m.theme.RoundedBox
	if m.focused {
		box = m.theme.FocusedBox
	}
	return box.Width(m.width).Render(b.String())
}

func (m WardrobeListModel) visibleItems() []model.WardrobeItem {
	if m.filter == "" {
		return m.items
	}
	filtered := make([]model.WardrobeItem, 0, len(m.items))
	for _, it := range m.items {
		if it.ItemType == m.filter {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

func (m *WardrobeListModel) clampCursor() {
	if n := len(m.visibleItems()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func roleIcon(t model.ItemType) string {
	switch t {
	case model.ItemShirt:
		return "👕"
	case model.ItemPants:
		return "👖"
	case model.ItemShoes:
		return "👟"
	default:
		return "🧵"
	}
}
