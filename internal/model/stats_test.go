package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_TotalCombinations(t *testing.T) {
	tests := []struct {
		counts map[ItemType]int
		name   string
		want   int
	}{
		{
			name:   "three shirts two pants four shoes",
			counts: map[ItemType]int{ItemShirt: 3, ItemPants: 2, ItemShoes: 4},
			want:   24,
		},
		{
			name:   "empty category zeroes the product",
			counts: map[ItemType]int{ItemShirt: 5, ItemPants: 0, ItemShoes: 3},
			want:   0,
		},
		{
			name:   "nil counts",
			counts: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{ItemCounts: tt.counts}
			assert.Equal(t, tt.want, s.TotalCombinations())
		})
	}
}

func TestStats_RatingsUntilRetrain(t *testing.T) {
	tests := []struct {
		name         string
		totalRatings int
		want         int
	}{
		{name: "twelve ratings", totalRatings: 12, want: 3},
		{name: "zero ratings", totalRatings: 0, want: 5},
		{name: "just retrained", totalRatings: 20, want: 5},
		{name: "one away", totalRatings: 9, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{TotalRatings: tt.totalRatings}
			assert.Equal(t, tt.want, s.RatingsUntilRetrain())
		})
	}
}
