package api

import (
	"context"
	"io"

	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// MockBackend is a mock implementation of service.Backend for testing.
type MockBackend struct {
	// Functions that can be set by tests to control behavior
	ListItemsFn      func(ctx context.Context, itemType model.ItemType) ([]model.WardrobeItem, error)
	AddItemFn        func(ctx context.Context, itemType model.ItemType, filename string, image io.Reader) (*service.AddItemResult, error)
	DeleteItemFn     func(ctx context.Context, clothingID string) error
	ItemFeaturesFn   func(ctx context.Context, clothingID string) (*model.ItemFeatures, error)
	RandomOutfitFn   func(ctx context.Context) (*model.Outfit, error)
	CompleteOutfitFn func(ctx context.Context, itemType model.ItemType, clothingID string) (*model.Outfit, error)
	BuildOutfitFn    func(ctx context.Context, req service.BuildRequest) (*model.Outfit, error)
	RateOutfitFn     func(ctx context.Context, outfit model.Outfit, stars int) (*service.RateResult, error)
	RetrainFn        func(ctx context.Context) (*service.RetrainResult, error)
	ListRatingsFn    func(ctx context.Context) ([]model.Rating, error)
	StatsFn          func(ctx context.Context) (*model.Stats, error)

	// Call tracking
	ListItemsCalls   []model.ItemType
	DeleteItemCalls  []string
	BuildCalls       []service.BuildRequest
	CompleteCalls    []CompleteCall
	RateCalls        []RateCall
	RandomCalls      int
	RetrainCalls     int
	StatsCalls       int
	ListRatingsCalls int
}

// CompleteCall records the parameters of a CompleteOutfit call.
type CompleteCall struct {
	ClothingID string
	ItemType   model.ItemType
}

// RateCall records the parameters of a RateOutfit call.
type RateCall struct {
	Outfit model.Outfit
	Stars  int
}

// NewMockBackend creates a new mock backend client.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// ListItems implements service.Backend.
func (m *MockBackend) ListItems(ctx context.Context, itemType model.ItemType) ([]model.WardrobeItem, error) {
	m.ListItemsCalls = append(m.ListItemsCalls, itemType)
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, itemType)
	}
	return []model.WardrobeItem{}, nil
}

// AddItem implements service.Backend.
func (m *MockBackend) AddItem(ctx context.Context, itemType model.ItemType, filename string, image io.Reader) (*service.AddItemResult, error) {
	if m.AddItemFn != nil {
		return m.AddItemFn(ctx, itemType, filename, image)
	}
	return &service.AddItemResult{ClothingID: string(itemType) + "_1"}, nil
}

// DeleteItem implements service.Backend.
func (m *MockBackend) DeleteItem(ctx context.Context, clothingID string) error {
	m.DeleteItemCalls = append(m.DeleteItemCalls, clothingID)
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, clothingID)
	}
	return nil
}

// ItemFeatures implements service.Backend.
func (m *MockBackend) ItemFeatures(ctx context.Context, clothingID string) (*model.ItemFeatures, error) {
	if m.ItemFeaturesFn != nil {
		return m.ItemFeaturesFn(ctx, clothingID)
	}
	return nil, nil
}

// ImageURL implements service.Backend.
func (m *MockBackend) ImageURL(clothingID string) string {
	return "http://mock/images/" + clothingID
}

// RandomOutfit implements service.Backend.
func (m *MockBackend) RandomOutfit(ctx context.Context) (*model.Outfit, error) {
	m.RandomCalls++
	if m.RandomOutfitFn != nil {
		return m.RandomOutfitFn(ctx)
	}
	return &model.Outfit{Shirt: "shirt_1", Pants: "pants_1", Shoes: "shoes_1", Score: 0.5, Source: model.SourceRandom}, nil
}

// CompleteOutfit implements service.Backend.
func (m *MockBackend) CompleteOutfit(ctx context.Context, itemType model.ItemType, clothingID string) (*model.Outfit, error) {
	m.CompleteCalls = append(m.CompleteCalls, CompleteCall{ItemType: itemType, ClothingID: clothingID})
	if m.CompleteOutfitFn != nil {
		return m.CompleteOutfitFn(ctx, itemType, clothingID)
	}
	return &model.Outfit{Shirt: "shirt_1", Pants: "pants_1", Shoes: "shoes_1", Score: 0.5, Source: model.SourceNewML}, nil
}

// BuildOutfit implements service.Backend.
func (m *MockBackend) BuildOutfit(ctx context.Context, req service.BuildRequest) (*model.Outfit, error) {
	m.BuildCalls = append(m.BuildCalls, req)
	if m.BuildOutfitFn != nil {
		return m.BuildOutfitFn(ctx, req)
	}
	return &model.Outfit{Shirt: "shirt_1", Pants: "pants_1", Shoes: "shoes_1", Score: 0.5, Source: model.SourceNewML}, nil
}

// RateOutfit implements service.Backend.
func (m *MockBackend) RateOutfit(ctx context.Context, outfit model.Outfit, stars int) (*service.RateResult, error) {
	m.RateCalls = append(m.RateCalls, RateCall{Outfit: outfit, Stars: stars})
	if m.RateOutfitFn != nil {
		return m.RateOutfitFn(ctx, outfit, stars)
	}
	return &service.RateResult{RatingCount: len(m.RateCalls), ShouldRetrain: false}, nil
}

// Retrain implements service.Backend.
func (m *MockBackend) Retrain(ctx context.Context) (*service.RetrainResult, error) {
	m.RetrainCalls++
	if m.RetrainFn != nil {
		return m.RetrainFn(ctx)
	}
	return &service.RetrainResult{Success: true, Message: "model retrained successfully"}, nil
}

// ListRatings implements service.Backend.
func (m *MockBackend) ListRatings(ctx context.Context) ([]model.Rating, error) {
	m.ListRatingsCalls++
	if m.ListRatingsFn != nil {
		return m.ListRatingsFn(ctx)
	}
	return []model.Rating{}, nil
}

// Stats implements service.Backend.
func (m *MockBackend) Stats(ctx context.Context) (*model.Stats, error) {
	m.StatsCalls++
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return &model.Stats{ItemCounts: map[model.ItemType]int{}}, nil
}

// Reset clears all call tracking.
func (m *MockBackend) Reset() {
	m.ListItemsCalls = nil
	m.DeleteItemCalls = nil
	m.BuildCalls = nil
	m.CompleteCalls = nil
	m.RateCalls = nil
	m.RandomCalls = 0
	m.RetrainCalls = 0
	m.StatsCalls = 0
	m.ListRatingsCalls = 0
}

// Ensure MockBackend implements the Backend interface.
var _ service.Backend = (*MockBackend)(nil)
