package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomcli/loom/internal/model"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "loom.db")
	cache, err := NewSQLiteCache(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	require.NoError(t, cache.Migrate(context.Background()))
	return cache
}

func sampleRatings(n int) []model.Rating {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ratings := make([]model.Rating, 0, n)
	for i := 0; i < n; i++ {
		ratings = append(ratings, model.Rating{
			ID:      int64(i + 1),
			ShirtID: "shirt_1",
			PantsID: "pants_2",
			ShoesID: "shoes_3",
			Stars:   (i % 5) + 1,
			RatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return ratings
}

func TestMigrate_Idempotent(t *testing.T) {
	cache := newTestCache(t)

	// A second run over an up-to-date database is a no-op.
	require.NoError(t, cache.Migrate(context.Background()))
}

func TestSaveRatings_RoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SaveRatings(ctx, sampleRatings(3)))

	got, err := cache.RecentRatings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first regardless of insert order.
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(1), got[2].ID)
	assert.Equal(t, "shirt_1", got[0].ShirtID)
	assert.Equal(t, 3, got[0].Stars)
}

func TestSaveRatings_ReplacesPrevious(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SaveRatings(ctx, sampleRatings(5)))
	require.NoError(t, cache.SaveRatings(ctx, sampleRatings(2)))

	got, err := cache.RecentRatings(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRecentRatings_Limit(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SaveRatings(ctx, sampleRatings(8)))

	got, err := cache.RecentRatings(ctx, 4)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, int64(8), got[0].ID)
}

func TestRecentRatings_InvalidLimit(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.RecentRatings(context.Background(), 0)
	assert.Error(t, err)
}

func TestStats_RoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cold, err := cache.LastStats(ctx)
	require.NoError(t, err)
	assert.Nil(t, cold)

	accuracy := 0.82
	stats := &model.Stats{
		ItemCounts:    map[model.ItemType]int{model.ItemShirt: 3, model.ItemPants: 2, model.ItemShoes: 4},
		TotalItems:    9,
		TotalRatings:  12,
		AvgRating:     3.5,
		ModelAccuracy: &accuracy,
	}
	require.NoError(t, cache.SaveStats(ctx, stats))

	got, err := cache.LastStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12, got.TotalRatings)
	assert.Equal(t, 3, got.Count(model.ItemShirt))
	require.NotNil(t, got.ModelAccuracy)
	assert.InDelta(t, 0.82, *got.ModelAccuracy, 0.001)
}

func TestSaveStats_Overwrites(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SaveStats(ctx, &model.Stats{TotalRatings: 5}))
	require.NoError(t, cache.SaveStats(ctx, &model.Stats{TotalRatings: 6}))

	got, err := cache.LastStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 6, got.TotalRatings)
}

func TestSaveStats_NilStats(t *testing.T) {
	cache := newTestCache(t)

	assert.Error(t, cache.SaveStats(context.Background(), nil))
}
