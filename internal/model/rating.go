package model

import (
	"fmt"
	"time"
)

// MinRating and MaxRating bound the star scale.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating records one submitted outfit rating. Ratings are created by a
// successful submission and never mutated.
type Rating struct {
	RatedAt time.Time `json:"rated_at"`
	ShirtID string    `json:"shirt_id"`
	PantsID string    `json:"pants_id"`
	ShoesID string    `json:"shoes_id"`
	Notes   string    `json:"notes,omitempty"`
	ID      int64     `json:"id"`
	Stars   int       `json:"rating"`
}

// ValidateStars rejects star values outside the 1..5 scale.
func ValidateStars(stars int) error {
	if stars < MinRating || stars > MaxRating {
		return fmt.Errorf("rating must be between %d and %d, got %d", MinRating, MaxRating, stars)
	}
	return nil
}

// Outfit reconstructs a synthetic Outfit from this rating. The score is
// derived as stars/5 and the source encodes the originating star value, so
// the result is visually equivalent to a freshly generated outfit but is
// born already rated.
func (r *Rating) Outfit() Outfit {
	return Outfit{
		Shirt:  r.ShirtID,
		Pants:  r.PantsID,
		Shoes:  r.ShoesID,
		Score:  float64(r.Stars) / float64(MaxRating),
		Source: UserRatingSource(r.Stars),
	}
}
