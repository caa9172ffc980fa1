package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutfit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		outfit  Outfit
		wantErr bool
	}{
		{
			name:   "complete outfit",
			outfit: Outfit{Shirt: "shirt_1", Pants: "pants_2", Shoes: "shoes_3", Score: 0.73, Source: SourceNewML},
		},
		{
			name:    "missing pants",
			outfit:  Outfit{Shirt: "shirt_1", Shoes: "shoes_3", Score: 0.5},
			wantErr: true,
		},
		{
			name:    "score above one",
			outfit:  Outfit{Shirt: "shirt_1", Pants: "pants_2", Shoes: "shoes_3", Score: 1.2},
			wantErr: true,
		},
		{
			name:    "negative score",
			outfit:  Outfit{Shirt: "shirt_1", Pants: "pants_2", Shoes: "shoes_3", Score: -0.1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.outfit.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRating_Outfit(t *testing.T) {
	r := Rating{ShirtID: "shirt_1", PantsID: "pants_1", ShoesID: "shoes_2", Stars: 4}

	o := r.Outfit()

	assert.Equal(t, "shirt_1", o.Shirt)
	assert.Equal(t, "pants_1", o.Pants)
	assert.Equal(t, "shoes_2", o.Shoes)
	assert.InDelta(t, 0.8, o.Score, 1e-9)
	assert.Equal(t, ScoreSource("user_rating_4"), o.Source)

	stars, ok := o.Source.FromUserRating()
	require.True(t, ok)
	assert.Equal(t, 4, stars)
}

func TestScoreSource_FromUserRating(t *testing.T) {
	for _, src := range []ScoreSource{SourceCachedML, SourceNewML, SourceRandom, SourceExplorationRandom, SourceExplorationFixed} {
		_, ok := src.FromUserRating()
		assert.False(t, ok, "backend source %q must not parse as a user rating", src)
	}

	_, ok := ScoreSource("user_rating_9").FromUserRating()
	assert.False(t, ok)
}

func TestParseItemType(t *testing.T) {
	for _, valid := range []string{"shirt", "pants", "shoes"} {
		got, err := ParseItemType(valid)
		require.NoError(t, err)
		assert.Equal(t, ItemType(valid), got)
	}

	_, err := ParseItemType("hat")
	assert.Error(t, err)
}
