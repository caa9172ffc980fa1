package model

// RetrainInterval is the server-side retrain threshold: the model retrains
// once per this many ratings.
const RetrainInterval = 5

// Stats is the aggregate wardrobe snapshot the backend reports. The client
// never mutates these counts locally; every state-changing operation
// triggers a refetch instead.
type Stats struct {
	ItemCounts        map[ItemType]int `json:"wardrobe_items"`
	ActiveModel       *string          `json:"active_model"`
	ModelAccuracy     *float64         `json:"model_accuracy"`
	TotalItems        int              `json:"total_items"`
	TotalRatings      int              `json:"total_ratings"`
	AvgRating         float64          `json:"avg_rating"`
	CachedFeatures    int              `json:"cached_features"`
	CachedPredictions int              `json:"cached_predictions"`
}

// Count returns the number of catalog items of one garment role.
func (s *Stats) Count(t ItemType) int {
	return s.ItemCounts[t]
}

// TotalCombinations derives the number of possible outfits from the
// per-category counts. Pure and recomputed on every render.
func (s *Stats) TotalCombinations() int {
	return s.Count(ItemShirt) * s.Count(ItemPants) * s.Count(ItemShoes)
}

// RatingsUntilRetrain derives how many more ratings the server needs before
// it signals the next retrain.
func (s *Stats) RatingsUntilRetrain() int {
	return RetrainInterval - s.TotalRatings%RetrainInterval
}
