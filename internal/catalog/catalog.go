// Package catalog provides the wardrobe catalog client and its display
// policies.
package catalog

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// Client wraps the backend's catalog operations. It owns the sampling
// discipline for item pickers: unfiltered fetches are shuffled so repeated
// visits do not always show items in upload order, while single-category
// fetches preserve the server's deterministic order.
type Client struct {
	backend service.Backend
	rng     *rand.Rand
	logger  *slog.Logger
}

// NewClient creates a catalog client seeded from the current time.
func NewClient(backend service.Backend) *Client {
	return NewClientWithSource(backend, rand.NewSource(time.Now().UnixNano()))
}

// NewClientWithSource creates a catalog client with an explicit random
// source. Tests use this to make the shuffle deterministic.
func NewClientWithSource(backend service.Backend, src rand.Source) *Client {
	return &Client{
		backend: backend,
		rng:     rand.New(src),
		logger:  slog.Default().With("component", "catalog"),
	}
}

// List fetches catalog items. An empty item type means the full wardrobe:
// the result gets a fresh Fisher-Yates shuffle on every fetch, not stable
// across re-renders. A single-category fetch is returned in server order.
func (c *Client) List(ctx context.Context, itemType model.ItemType) ([]model.WardrobeItem, error) {
	items, err := c.backend.ListItems(ctx, itemType)
	if err != nil {
		return nil, err
	}

	if itemType == "" {
		c.rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}

	return items, nil
}

// Add uploads a new garment image to the catalog.
func (c *Client) Add(ctx context.Context, itemType model.ItemType, filename string, image io.Reader) (*service.AddItemResult, error) {
	return c.backend.AddItem(ctx, itemType, filename, image)
}

// Delete removes an item. Callers must have confirmed with the user first,
// and on success must refresh both the catalog and the stats view-model.
func (c *Client) Delete(ctx context.Context, clothingID string) error {
	return c.backend.DeleteItem(ctx, clothingID)
}

// Features fetches derived attributes for one item. A nil result with nil
// error means extraction has not run yet.
func (c *Client) Features(ctx context.Context, clothingID string) (*model.ItemFeatures, error) {
	return c.backend.ItemFeatures(ctx, clothingID)
}

// ImageURL resolves an item's image reference.
func (c *Client) ImageURL(clothingID string) string {
	return c.backend.ImageURL(clothingID)
}
