package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/loomcli/loom/internal/api"
	"github.com/loomcli/loom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manyRatings(n int) []model.Rating {
	ratings := make([]model.Rating, 0, n)
	for i := n; i > 0; i-- {
		ratings = append(ratings, model.Rating{
			ID:      int64(i),
			ShirtID: "shirt_1",
			PantsID: "pants_1",
			ShoesID: "shoes_1",
			Stars:   (i % 5) + 1,
			RatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}
	return ratings
}

func TestFetch_TrimsToRecentCap(t *testing.T) {
	backend := api.NewMockBackend()
	backend.ListRatingsFn = func(_ context.Context) ([]model.Rating, error) {
		return manyRatings(50), nil
	}
	backend.StatsFn = func(_ context.Context) (*model.Stats, error) {
		return &model.Stats{TotalRatings: 50}, nil
	}

	snap, err := Fetch(context.Background(), backend, nil)
	require.NoError(t, err)

	assert.Len(t, snap.Ratings, DefaultRecentLimit)
	assert.Equal(t, int64(50), snap.Ratings[0].ID, "newest-first order preserved")
	assert.Equal(t, 50, snap.Stats.TotalRatings)
}

func TestFetch_StatsErrorAborts(t *testing.T) {
	backend := api.NewMockBackend()
	backend.StatsFn = func(_ context.Context) (*model.Stats, error) {
		return nil, fmt.Errorf("boom")
	}

	_, err := Fetch(context.Background(), backend, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, backend.ListRatingsCalls, "ratings fetch skipped when stats fail")
}

func TestViewModel_ApplyAndDerived(t *testing.T) {
	vm := NewViewModel()

	assert.Equal(t, 0, vm.TotalCombinations())
	assert.Equal(t, model.RetrainInterval, vm.RatingsUntilRetrain())
	assert.Nil(t, vm.Stats())

	vm.Apply(&Snapshot{
		Stats: &model.Stats{
			ItemCounts:   map[model.ItemType]int{model.ItemShirt: 3, model.ItemPants: 2, model.ItemShoes: 4},
			TotalRatings: 12,
		},
		Ratings: manyRatings(25),
	})

	assert.Equal(t, 24, vm.TotalCombinations())
	assert.Equal(t, 3, vm.RatingsUntilRetrain())
	assert.Len(t, vm.Recent(), DefaultRecentLimit)

	// A stats-only snapshot leaves the recent list alone.
	vm.Apply(&Snapshot{Stats: &model.Stats{TotalRatings: 13}})
	assert.Len(t, vm.Recent(), DefaultRecentLimit)
	assert.Equal(t, 2, vm.RatingsUntilRetrain())
}

func TestWarmStart_ColdCacheIsEmptyNotError(t *testing.T) {
	snap, err := WarmStart(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, snap.Stats)
	assert.Empty(t, snap.Ratings)
}
