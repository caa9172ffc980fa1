// Package history maintains the recent-ratings cache and the stats
// view-model.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// DefaultRecentLimit caps the recent-ratings cache. The cap is a client
// display bound, independent of any backend pagination.
const DefaultRecentLimit = 20

// Snapshot is one consistent view of stats plus recent ratings, produced by
// a fetch and applied to the view-model in a single step.
type Snapshot struct {
	Stats   *model.Stats
	Ratings []model.Rating
}

// Fetch pulls stats and the rating history from the backend, trims the
// history to the recent cap, and writes both through to the local cache.
// Cache write failures are logged, never surfaced: the server copy is
// authoritative.
func Fetch(ctx context.Context, backend service.Backend, cache service.RatingsCache) (*Snapshot, error) {
	stats, err := backend.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh stats: %w", err)
	}

	ratings, err := backend.ListRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh ratings: %w", err)
	}
	if len(ratings) > DefaultRecentLimit {
		ratings = ratings[:DefaultRecentLimit]
	}

	if cache != nil {
		if err := cache.SaveStats(ctx, stats); err != nil {
			slog.Warn("Failed to cache stats snapshot", "error", err)
		}
		if err := cache.SaveRatings(ctx, ratings); err != nil {
			slog.Warn("Failed to cache recent ratings", "error", err)
		}
	}

	return &Snapshot{Stats: stats, Ratings: ratings}, nil
}

// WarmStart loads the last cached snapshot so the first paint has data
// before the network round-trip completes. A cold cache returns an empty
// snapshot, not an error.
func WarmStart(ctx context.Context, cache service.RatingsCache) (*Snapshot, error) {
	if cache == nil {
		return &Snapshot{}, nil
	}

	stats, err := cache.LastStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached stats: %w", err)
	}
	ratings, err := cache.RecentRatings(ctx, DefaultRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached ratings: %w", err)
	}

	return &Snapshot{Stats: stats, Ratings: ratings}, nil
}

// ViewModel holds the most recent snapshot for display. Stats are never
// mutated locally; the derived values are recomputed on every read.
type ViewModel struct {
	stats  *model.Stats
	recent []model.Rating
	limit  int
}

// NewViewModel creates an empty view-model with the default recent cap.
func NewViewModel() *ViewModel {
	return &ViewModel{limit: DefaultRecentLimit}
}

// Apply replaces the view-model contents with a fetched snapshot, keeping
// the ratings newest-first and bounded.
func (v *ViewModel) Apply(snap *Snapshot) {
	if snap == nil {
		return
	}
	if snap.Stats != nil {
		v.stats = snap.Stats
	}
	if snap.Ratings != nil {
		recent := snap.Ratings
		if len(recent) > v.limit {
			recent = recent[:v.limit]
		}
		v.recent = recent
	}
}

// Stats returns the last applied stats, or nil before the first snapshot.
func (v *ViewModel) Stats() *model.Stats {
	return v.stats
}

// Recent returns the bounded recent ratings, newest first.
func (v *ViewModel) Recent() []model.Rating {
	return v.recent
}

// TotalCombinations derives the combination count from the per-category
// item counts, zero before the first snapshot.
func (v *ViewModel) TotalCombinations() int {
	if v.stats == nil {
		return 0
	}
	return v.stats.TotalCombinations()
}

// RatingsUntilRetrain derives the remaining ratings before the server's
// next retrain signal.
func (v *ViewModel) RatingsUntilRetrain() int {
	if v.stats == nil {
		return model.RetrainInterval
	}
	return v.stats.RatingsUntilRetrain()
}
