package components

import (
	"fmt"
	"strings"

	"github.com/loomcli/loom/internal/history"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/tui/themes"
)

// StatsPanelModel displays the wardrobe aggregate numbers.
type StatsPanelModel struct {
	theme  themes.Theme
	width  int
	height int
}

// NewStatsPanelModel creates the stats pane.
func NewStatsPanelModel(theme themes.Theme) StatsPanelModel {
	return StatsPanelModel{theme: theme}
}

// Resize adjusts the rendered dimensions.
func (m StatsPanelModel) Resize(width, height int) StatsPanelModel {
	m.width = width
	m.height = height
	return m
}

// View renders the stats pane from the history view model.
func (m StatsPanelModel) View(vm *history.ViewModel) string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Stats"))
	b.WriteString("\n")

	stats := vm.Stats()
	if stats == nil {
		b.WriteString(m.theme.StatusPending.Render("Loading stats..."))
		return m.theme.RoundedBox.Width(m.width).Render(b.String())
	}

	for _, role := range model.ItemTypes() {
		b.WriteString(fmt.Sprintf("%s %-6s %d\n", roleIcon(role), role.Title(), stats.Count(role)))
	}
	b.WriteString(fmt.Sprintf("Combinations  %d\n", vm.TotalCombinations()))
	b.WriteString(fmt.Sprintf("Ratings       %d (avg %.1f)\n", stats.TotalRatings, stats.AvgRating))
	b.WriteString(fmt.Sprintf("Next retrain  in %d ratings\n", vm.RatingsUntilRetrain()))

	if stats.ActiveModel != nil {
		b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("Model %s", *stats.ActiveModel)))
		if stats.ModelAccuracy != nil {
			b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf(" · %.0f%% accurate", *stats.ModelAccuracy*100)))
		}
	} else {
		b.WriteString(m.theme.Subtitle.Render("No trained model yet"))
	}

	return m.theme.RoundedBox.Width(m.width).Render(b.String())
}
