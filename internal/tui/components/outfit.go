package components

import (
	"fmt"
	"strings"

	"github.com/loomcli/loom/internal/builder"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/tui/themes"
)

// OutfitPanelModel renders the builder session: the three slots, the
// resolved outfit with its score, and the rating state. It holds no state of
// its own beyond presentation; the session is the source of truth.
type OutfitPanelModel struct {
	theme   themes.Theme
	width   int
	height  int
	focused bool
}

// NewOutfitPanelModel creates the outfit pane.
func NewOutfitPanelModel(theme themes.Theme) OutfitPanelModel {
	return OutfitPanelModel{theme: theme}
}

// SetFocused toggles the focus highlight.
func (m OutfitPanelModel) SetFocused(focused bool) OutfitPanelModel {
	m.focused = focused
	return m
}

// Resize adjusts the rendered dimensions.
func (m OutfitPanelModel) Resize(width, height int) OutfitPanelModel {
	m.width = width
	m.height = height
	return m
}

// View renders the pane from the live session.
func (m OutfitPanelModel) View(session *builder.Session) string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Outfit Builder"))
	b.WriteString("\n")

	slots := session.Slots()
	for _, role := range model.ItemTypes() {
		b.WriteString(m.renderSlot(role, slots.Get(role)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch session.Phase() {
	case builder.PhaseGenerating:
		b.WriteString(m.theme.StatusPending.Render("Generating outfit..."))
	case builder.PhaseRating:
		b.WriteString(m.theme.StatusPending.Render("Submitting rating..."))
	case builder.PhaseRetraining:
		b.WriteString(m.theme.StatusWarning.Render("Retraining model, hang tight..."))
	case builder.PhaseGenerated:
		b.WriteString(m.renderOutfit(session.Outfit()))
		b.WriteString("\n")
		b.WriteString(m.theme.Subtitle.Render("Press 1-5 to rate"))
	case builder.PhaseRated:
		b.WriteString(m.renderOutfit(session.Outfit()))
		b.WriteString("\n")
		b.WriteString(m.renderStars(session.Stars()))
	case builder.PhaseComposing:
		if slots.Empty() {
			b.WriteString(m.theme.Subtitle.Render("Pick items from the wardrobe, or press g for a random outfit"))
		} else {
			b.WriteString(m.theme.Subtitle.Render("Press f to fill the empty slots"))
		}
	}

	box := m.theme.RoundedBox
	if m.focused {
		box = m.theme.FocusedBox
	}
	return box.Width(m.width).Render(b.String())
}

func (m OutfitPanelModel) renderSlot(role model.ItemType, id *string) string {
	label := fmt.Sprintf("%s %-6s", roleIcon(role), role.Title())
	if id == nil {
		return label + m.theme.SlotEmpty.Render("  (empty)")
	}
	return label + m.theme.SlotFilled.Render("  "+*id)
}

func (m OutfitPanelModel) renderOutfit(outfit *model.Outfit) string {
	if outfit == nil {
		return ""
	}
	score := fmt.Sprintf("Score: %.0f%%", outfit.Score*100)
	return m.theme.Bold.Render(score) + "  " + m.theme.Italic.Render(sourceLabel(outfit.Source))
}

func (m OutfitPanelModel) renderStars(stars int) string {
	var b strings.Builder
	for i := 1; i <= model.MaxRating; i++ {
		if i <= stars {
			b.WriteString(m.theme.StarFilled.Render("★"))
		} else {
			b.WriteString(m.theme.StarEmpty.Render("☆"))
		}
	}
	b.WriteString("  ")
	b.WriteString(m.theme.StatusSuccess.Render("Rated!"))
	return b.String()
}

// sourceLabel translates a score source into display text.
func sourceLabel(source model.ScoreSource) string {
	if stars, ok := source.FromUserRating(); ok {
		return fmt.Sprintf("your %d-star rating", stars)
	}
	switch source {
	case model.SourceCachedML, model.SourceNewML:
		return "model prediction"
	case model.SourceRandom, model.SourceExplorationRandom:
		return "random pick"
	case model.SourceExplorationFixed:
		return "exploring around your picks"
	default:
		return string(source)
	}
}
