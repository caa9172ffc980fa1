// Package tui implements the interactive outfit builder interface.
package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomcli/loom/internal/builder"
	"github.com/loomcli/loom/internal/catalog"
	"github.com/loomcli/loom/internal/common"
	"github.com/loomcli/loom/internal/history"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
	"github.com/loomcli/loom/internal/tui/components"
	"github.com/loomcli/loom/internal/tui/themes"
)

// Focus identifies which pane receives navigation keys.
type Focus int

const (
	FocusWardrobe Focus = iota
	FocusRecent
)

// Model holds the main TUI state. The builder session owns the outfit
// lifecycle; the model translates key presses and command results into
// session operations.
type Model struct {
	theme       themes.Theme
	backend     service.Backend
	catalog     *catalog.Client
	cache       service.RatingsCache
	session     *builder.Session
	historyVM   *history.ViewModel
	wardrobe    components.WardrobeListModel
	outfitPanel components.OutfitPanelModel
	statsPanel  components.StatsPanelModel
	recentList  components.RecentListModel
	keymap      KeyMap
	config      Config

	confirmDelete *model.WardrobeItem
	status        string
	statusLevel   statusLevel
	statusSeq     int
	focus         Focus
	width         int
	height        int
	showHelp      bool
	ready         bool
	quitting      bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	m := Model{
		theme:       cfg.Theme,
		backend:     cfg.Backend,
		catalog:     cfg.Catalog,
		cache:       cfg.Cache,
		session:     builder.NewSession(),
		historyVM:   history.NewViewModel(),
		wardrobe:    components.NewWardrobeListModel(cfg.Theme),
		outfitPanel: components.NewOutfitPanelModel(cfg.Theme),
		statsPanel:  components.NewStatsPanelModel(cfg.Theme),
		recentList:  components.NewRecentListModel(cfg.Theme),
		keymap:      DefaultKeyMap(),
		config:      cfg,
		width:       cfg.Width,
		height:      cfg.Height,
	}
	m.wardrobe = m.wardrobe.SetFocused(true)
	return m
}

// Init kicks off the warm start and the initial fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.warmStart(),
		m.loadCatalog(),
		m.loadHistory(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()

	case catalogLoadedMsg:
		m.ready = true
		if msg.err != nil {
			cmds = append(cmds, m.setStatus(common.UserMessage(msg.err), statusError))
			break
		}
		m.wardrobe = m.wardrobe.SetItems(msg.items)

	case historyLoadedMsg:
		if msg.err != nil {
			// Warm start failures are not worth a status line; the network
			// fetch is already on its way.
			if !msg.warm {
				cmds = append(cmds, m.setStatus(common.UserMessage(msg.err), statusWarning))
			}
			break
		}
		m.historyVM.Apply(msg.snapshot)
		m.recentList = m.recentList.SetRatings(m.historyVM.Recent())

	case outfitResolvedMsg:
		cmds = append(cmds, m.handleResolved(msg)...)

	case ratingSubmittedMsg:
		cmds = append(cmds, m.handleRated(msg)...)

	case retrainFinishedMsg:
		m.session.RetrainFinished()
		if msg.err != nil || (msg.result != nil && !msg.result.Success) {
			cmds = append(cmds, m.setStatus("Retrain failed; your rating is saved", statusWarning))
		} else if msg.result != nil && msg.result.Accuracy != nil {
			cmds = append(cmds, m.setStatus(
				fmt.Sprintf("Model retrained, %.0f%% accuracy", *msg.result.Accuracy*100), statusSuccess))
		} else {
			cmds = append(cmds, m.setStatus("Model retrained", statusSuccess))
		}
		cmds = append(cmds, m.loadHistory(), scheduleReset(m.session.Generation()))

	case resetTickMsg:
		if m.session.Phase() == builder.PhaseRated && msg.generation == m.session.Generation() {
			m.session.Reset()
		}

	case itemDeletedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setStatus(common.UserMessage(msg.err), statusError))
			break
		}
		m.wardrobe = m.wardrobe.RemoveItem(msg.clothingID)
		m.session.ItemDeleted(msg.clothingID)
		cmds = append(cmds, m.setStatus("Item deleted", statusSuccess), m.loadHistory())

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	}

	return m, tea.Batch(cmds...)
}

// handleResolved applies a resolve response, discarding stale generations.
func (m *Model) handleResolved(msg outfitResolvedMsg) []tea.Cmd {
	if msg.err != nil {
		if !m.session.ResolveFailed(msg.generation) {
			return nil
		}
		if errors.Is(msg.err, common.ErrInfeasibleOutfit) {
			return []tea.Cmd{m.setStatus("Not enough items to build an outfit; add more clothes first", statusWarning)}
		}
		return []tea.Cmd{m.setStatus(common.UserMessage(msg.err), statusError)}
	}

	if !m.session.ResolveSucceeded(msg.generation, *msg.outfit) {
		// Stale response; a newer action owns the session.
		return nil
	}
	return nil
}

// handleRated applies a rating response and sequences the retrain.
func (m *Model) handleRated(msg ratingSubmittedMsg) []tea.Cmd {
	if msg.err != nil {
		if !m.session.RatingFailed(msg.generation) {
			return nil
		}
		return []tea.Cmd{m.setStatus(common.UserMessage(msg.err), statusError)}
	}

	if !m.session.RatingSucceeded(msg.generation) {
		return nil
	}

	cmds := []tea.Cmd{m.loadHistory()}

	if msg.result != nil && msg.result.ShouldRetrain {
		if err := m.session.BeginRetrain(); err == nil {
			cmds = append(cmds,
				m.setStatus("Rating saved; retraining the model...", statusInfo),
				m.retrain(),
			)
			return cmds
		}
	}

	text := "Rating saved"
	if msg.result != nil && msg.result.Message != "" {
		text = msg.result.Message
	}
	cmds = append(cmds,
		m.setStatus(text, statusSuccess),
		scheduleReset(m.session.Generation()),
	)
	return cmds
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Delete confirmation intercepts everything.
	if m.confirmDelete != nil {
		item := *m.confirmDelete
		m.confirmDelete = nil
		if key == "y" || key == "Y" {
			return m, m.deleteItem(item.ClothingID)
		}
		return m, m.setStatus("Delete canceled", statusInfo)
	}

	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "q", "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if !m.session.Busy() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "ctrl+l":
		return m, tea.ClearScreen
	case "ctrl+r":
		return m, tea.Batch(m.loadCatalog(), m.loadHistory())
	case "tab":
		if m.focus == FocusWardrobe {
			m.focus = FocusRecent
		} else {
			m.focus = FocusWardrobe
		}
		m.wardrobe = m.wardrobe.SetFocused(m.focus == FocusWardrobe)
		m.recentList = m.recentList.SetFocused(m.focus == FocusRecent)
		return m, nil
	}

	if m.showHelp {
		return m, nil
	}

	switch key {
	case "1", "2", "3", "4", "5":
		return m.handleRateKey(int(key[0] - '0'))
	case "g", " ":
		return m.handleTrigger(m.session.Random())
	case "f":
		return m.handleTrigger(m.session.FillEmpty())
	case "x":
		if m.session.Busy() {
			return m, m.busyStatus()
		}
		m.session.Reset()
		return m, nil
	case "c":
		return m.handleClearSlot()
	case "enter":
		return m.handleSelect()
	case "b":
		return m.handleBuildAround()
	case "d":
		if m.focus == FocusWardrobe {
			if item := m.wardrobe.SelectedItem(); item != nil {
				m.confirmDelete = item
			}
		}
		return m, nil
	}

	// Navigation goes to the focused pane.
	var cmd tea.Cmd
	switch m.focus {
	case FocusWardrobe:
		m.wardrobe, cmd = m.wardrobe.Update(msg)
	case FocusRecent:
		m.recentList, cmd = m.recentList.Update(msg)
	}
	return m, cmd
}

// handleRateKey submits a rating for the displayed outfit.
func (m Model) handleRateKey(stars int) (tea.Model, tea.Cmd) {
	outfit, generation, err := m.session.BeginRating(stars)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyRated):
			return m, m.setStatus("This outfit is already rated; regenerate to rate again", statusWarning)
		case errors.Is(err, common.ErrNoOutfit):
			return m, m.setStatus("Nothing to rate yet; generate an outfit first", statusInfo)
		default:
			return m, m.setStatus(common.UserMessage(err), statusError)
		}
	}
	return m, m.submitRating(generation, outfit, stars)
}

// handleTrigger dispatches a resolve returned by a session operation.
func (m Model) handleTrigger(resolve *builder.Resolve, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if errors.Is(err, common.ErrResolveInFlight) {
			return m, m.busyStatus()
		}
		return m, m.setStatus(common.UserMessage(err), statusError)
	}
	if resolve == nil {
		return m, nil
	}
	return m, m.resolveOutfit(*resolve)
}

// handleSelect places the highlighted wardrobe item into its slot, or
// replays a past rating from the recent pane.
func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	switch m.focus {
	case FocusWardrobe:
		item := m.wardrobe.SelectedItem()
		if item == nil {
			return m, nil
		}
		return m.handleTrigger(m.session.Select(item.ItemType, item.ClothingID))

	case FocusRecent:
		rating := m.recentList.SelectedRating()
		if rating == nil {
			return m, nil
		}
		if err := m.session.ShowRated(*rating); err != nil {
			return m, m.busyStatus()
		}
		return m, nil
	}
	return m, nil
}

// handleBuildAround resets the builder to the highlighted item alone and
// asks the server to complete around it.
func (m Model) handleBuildAround() (tea.Model, tea.Cmd) {
	if m.focus != FocusWardrobe {
		return m, nil
	}
	item := m.wardrobe.SelectedItem()
	if item == nil {
		return m, nil
	}
	if m.session.Busy() {
		return m, m.busyStatus()
	}

	m.session.Reset()
	if _, err := m.session.Select(item.ItemType, item.ClothingID); err != nil {
		return m, m.setStatus(common.UserMessage(err), statusError)
	}
	return m.handleTrigger(m.session.FillEmpty())
}

// handleClearSlot clears the slot matching the wardrobe filter, or the
// highlighted item's role when unfiltered.
func (m Model) handleClearSlot() (tea.Model, tea.Cmd) {
	role := m.wardrobe.Filter()
	if role == "" {
		if item := m.wardrobe.SelectedItem(); item != nil {
			role = item.ItemType
		}
	}
	if role == "" {
		return m, m.setStatus("Filter to a role or highlight an item to clear its slot", statusInfo)
	}
	if err := m.session.Clear(role); err != nil {
		return m, m.busyStatus()
	}
	return m, nil
}

// busyStatus names the operation blocking input.
func (m *Model) busyStatus() tea.Cmd {
	switch m.session.Phase() {
	case builder.PhaseRetraining:
		return m.setStatus("Retraining in progress, hang on...", statusWarning)
	case builder.PhaseRating:
		return m.setStatus("Rating in flight, one moment...", statusWarning)
	default:
		return m.setStatus("Still generating, one moment...", statusWarning)
	}
}

// setStatus replaces the status line and arms its expiry timer.
func (m *Model) setStatus(text string, level statusLevel) tea.Cmd {
	m.status = text
	m.statusLevel = level
	m.statusSeq++
	return scheduleStatusClear(m.statusSeq)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	half := m.width/2 - 2
	topHeight := (m.height * 2) / 3
	bottomHeight := m.height - topHeight - 3

	m.wardrobe = m.wardrobe.Resize(half, topHeight)
	m.outfitPanel = m.outfitPanel.Resize(half, topHeight)
	m.statsPanel = m.statsPanel.Resize(half, bottomHeight)
	m.recentList = m.recentList.Resize(half, bottomHeight)
}
