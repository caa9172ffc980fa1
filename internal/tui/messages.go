package tui

import (
	"github.com/loomcli/loom/internal/history"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// Data loading messages.
type catalogLoadedMsg struct {
	err   error
	items []model.WardrobeItem
}

type historyLoadedMsg struct {
	err      error
	snapshot *history.Snapshot
	warm     bool
}

// Outfit lifecycle messages. Every response carries the generation it was
// issued under so stale deliveries can be recognized and dropped.
type outfitResolvedMsg struct {
	err        error
	outfit     *model.Outfit
	generation uint64
}

type ratingSubmittedMsg struct {
	err        error
	result     *service.RateResult
	generation uint64
}

type retrainFinishedMsg struct {
	err    error
	result *service.RetrainResult
}

// resetTickMsg fires after the post-rating display delay.
type resetTickMsg struct {
	generation uint64
}

// Catalog mutation messages.
type itemDeletedMsg struct {
	err        error
	clothingID string
}

// clearStatusMsg expires the status line set under the matching sequence.
type clearStatusMsg struct {
	seq int
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusWarning
	statusError
)
