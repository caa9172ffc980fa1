// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"
	"time"

	"github.com/loomcli/loom/internal/model"
)

// Backend defines the contract for the wardrobe recommendation backend.
// Everything the client knows about recommendations comes through here; the
// client never computes scores itself.
type Backend interface {
	// Catalog operations
	ListItems(ctx context.Context, itemType model.ItemType) ([]model.WardrobeItem, error)
	AddItem(ctx context.Context, itemType model.ItemType, filename string, image io.Reader) (*AddItemResult, error)
	DeleteItem(ctx context.Context, clothingID string) error
	ItemFeatures(ctx context.Context, clothingID string) (*model.ItemFeatures, error)
	ImageURL(clothingID string) string

	// Outfit operations
	RandomOutfit(ctx context.Context) (*model.Outfit, error)
	CompleteOutfit(ctx context.Context, itemType model.ItemType, clothingID string) (*model.Outfit, error)
	BuildOutfit(ctx context.Context, req BuildRequest) (*model.Outfit, error)

	// Rating and model operations
	RateOutfit(ctx context.Context, outfit model.Outfit, stars int) (*RateResult, error)
	Retrain(ctx context.Context) (*RetrainResult, error)
	ListRatings(ctx context.Context) ([]model.Rating, error)

	// Aggregates
	Stats(ctx context.Context) (*model.Stats, error)
}

// BuildRequest carries the partial slot contents for a build call. Nil
// fields are left for the server to fill.
type BuildRequest struct {
	ShirtID *string `json:"shirt_id,omitempty"`
	PantsID *string `json:"pants_id,omitempty"`
	ShoesID *string `json:"shoes_id,omitempty"`
}

// Empty reports whether no slot is constrained.
func (r BuildRequest) Empty() bool {
	return r.ShirtID == nil && r.PantsID == nil && r.ShoesID == nil
}

// AddItemResult is the backend's response to an item upload.
type AddItemResult struct {
	ClothingID string
	Message    string
}

// RateResult is the backend's response to a rating submission. ShouldRetrain
// is the server-declared retrain signal the client must act on.
type RateResult struct {
	Message       string
	RatingCount   int
	ShouldRetrain bool
}

// RetrainResult is the backend's response to a retrain invocation.
type RetrainResult struct {
	Message  string
	Accuracy *float64
	Success  bool
}

// RatingsCache is the local warm-start store for recent ratings and the last
// stats snapshot. It is a cache only: refreshes overwrite it wholesale.
type RatingsCache interface {
	SaveRatings(ctx context.Context, ratings []model.Rating) error
	RecentRatings(ctx context.Context, limit int) ([]model.Rating, error)
	SaveStats(ctx context.Context, stats *model.Stats) error
	LastStats(ctx context.Context) (*model.Stats, error)
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
