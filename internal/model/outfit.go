package model

import "fmt"

// ScoreSource tags how an outfit's score was produced.
type ScoreSource string

// Score sources assigned by the backend, plus the five reconstructed-from-
// history tags for outfits rebuilt from a past rating.
const (
	SourceCachedML          ScoreSource = "cached_ml"
	SourceNewML             ScoreSource = "new_ml"
	SourceRandom            ScoreSource = "random"
	SourceExplorationRandom ScoreSource = "exploration_random"
	SourceExplorationFixed  ScoreSource = "exploration_with_fixed"
)

// UserRatingSource returns the score source tag for an outfit reconstructed
// from a past rating of the given star value.
func UserRatingSource(stars int) ScoreSource {
	return ScoreSource(fmt.Sprintf("user_rating_%d", stars))
}

// FromUserRating reports whether the source was reconstructed from history
// rather than assigned by the backend, and if so which star value it encodes.
func (s ScoreSource) FromUserRating() (int, bool) {
	var stars int
	if _, err := fmt.Sscanf(string(s), "user_rating_%d", &stars); err != nil {
		return 0, false
	}
	if stars < 1 || stars > 5 {
		return 0, false
	}
	return stars, true
}

// Outfit is a complete shirt/pants/shoes combination with the score the
// backend (or a past rating) assigned to it. Outfits are immutable; rating
// or regenerating produces a new Outfit.
type Outfit struct {
	Shirt  string      `json:"shirt"`
	Pants  string      `json:"pants"`
	Shoes  string      `json:"shoes"`
	Source ScoreSource `json:"score_source"`
	Score  float64     `json:"score"`
}

// Validate checks that the outfit is complete and its score is in [0, 1].
func (o *Outfit) Validate() error {
	if o.Shirt == "" || o.Pants == "" || o.Shoes == "" {
		return fmt.Errorf("incomplete outfit: shirt=%q pants=%q shoes=%q", o.Shirt, o.Pants, o.Shoes)
	}
	if o.Score < 0 || o.Score > 1 {
		return fmt.Errorf("outfit score %v out of range [0,1]", o.Score)
	}
	return nil
}
