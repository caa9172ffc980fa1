package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomcli/loom/internal/builder"
	"github.com/loomcli/loom/internal/history"
	"github.com/loomcli/loom/internal/model"
)

// resetDelay is how long a freshly rated outfit stays on screen before the
// builder clears for the next round.
const resetDelay = 1500 * time.Millisecond

// statusDuration is how long a transient status line stays visible.
const statusDuration = 4 * time.Second

// loadCatalog fetches the full wardrobe. The catalog client shuffles
// unfiltered results, so every load presents a fresh order.
func (m Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		if m.catalog == nil {
			return catalogLoadedMsg{err: fmt.Errorf("catalog not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		items, err := m.catalog.List(ctx, "")
		return catalogLoadedMsg{items: items, err: err}
	}
}

// warmStart reads the local cache so the history pane renders before the
// first network round trip completes.
func (m Model) warmStart() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		snap, err := history.WarmStart(ctx, m.cache)
		return historyLoadedMsg{snapshot: snap, err: err, warm: true}
	}
}

// loadHistory fetches stats and recent ratings from the backend.
func (m Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		if m.backend == nil {
			return historyLoadedMsg{err: fmt.Errorf("backend not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		snap, err := history.Fetch(ctx, m.backend, m.cache)
		return historyLoadedMsg{snapshot: snap, err: err}
	}
}

// resolveOutfit runs one resolve call for the given trigger. The generation
// travels with the response; the Update loop discards mismatches.
func (m Model) resolveOutfit(resolve builder.Resolve) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var outfit *model.Outfit
		var err error
		if resolve.Random {
			outfit, err = m.backend.RandomOutfit(ctx)
		} else {
			outfit, err = m.backend.BuildOutfit(ctx, resolve.Request)
		}

		return outfitResolvedMsg{outfit: outfit, err: err, generation: resolve.Generation}
	}
}

// submitRating sends the rating for the captured outfit. Never retried: a
// timeout is surfaced rather than risking a duplicate submission.
func (m Model) submitRating(generation uint64, outfit model.Outfit, stars int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := m.backend.RateOutfit(ctx, outfit, stars)
		return ratingSubmittedMsg{result: result, err: err, generation: generation}
	}
}

// retrain triggers a model retrain. Issued only after the rating that
// demanded it has been confirmed.
func (m Model) retrain() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := m.backend.Retrain(ctx)
		return retrainFinishedMsg{result: result, err: err}
	}
}

// deleteItem removes a catalog item.
func (m Model) deleteItem(clothingID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := m.catalog.Delete(ctx, clothingID)
		return itemDeletedMsg{clothingID: clothingID, err: err}
	}
}

// scheduleReset arms the post-rating reset timer. The generation captured
// here is checked on delivery; user activity in the meantime disarms it.
func scheduleReset(generation uint64) tea.Cmd {
	return tea.Tick(resetDelay, func(time.Time) tea.Msg {
		return resetTickMsg{generation: generation}
	})
}

// scheduleStatusClear expires the status line after a few seconds.
func scheduleStatusClear(seq int) tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
