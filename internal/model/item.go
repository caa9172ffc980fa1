// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// ItemType identifies which garment slot a wardrobe item fills.
type ItemType string

// The three garment roles recognized by the backend.
const (
	ItemShirt ItemType = "shirt"
	ItemPants ItemType = "pants"
	ItemShoes ItemType = "shoes"
)

// ItemTypes lists all garment roles in display order.
func ItemTypes() []ItemType {
	return []ItemType{ItemShirt, ItemPants, ItemShoes}
}

// ParseItemType converts a string into an ItemType, rejecting unknown values.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemShirt, ItemPants, ItemShoes:
		return ItemType(s), nil
	default:
		return "", fmt.Errorf("invalid item type %q: must be shirt, pants, or shoes", s)
	}
}

// Valid reports whether the item type is one of the three garment roles.
func (t ItemType) Valid() bool {
	return t == ItemShirt || t == ItemPants || t == ItemShoes
}

// Title returns the capitalized display name for the garment role.
func (t ItemType) Title() string {
	switch t {
	case ItemShirt:
		return "Shirt"
	case ItemPants:
		return "Pants"
	case ItemShoes:
		return "Shoes"
	default:
		return string(t)
	}
}

// WardrobeItem is a single piece of clothing in the user's catalog.
// Items are owned by the backend; the client holds transient copies.
type WardrobeItem struct {
	UploadedAt     time.Time `json:"uploaded_at"`
	ClothingID     string    `json:"clothing_id"`
	ItemType       ItemType  `json:"item_type"`
	FilePath       string    `json:"file_path"`
	DominantColor  string    `json:"dominant_color"`
	SecondaryColor string    `json:"secondary_color"`
}

// ItemFeatures holds the derived attributes the backend extracts for an item.
// A nil ItemFeatures means extraction has not run yet, not an error.
type ItemFeatures struct {
	ClothingID     string   `json:"clothing_id"`
	ItemType       ItemType `json:"item_type"`
	DominantColor  string   `json:"dominant_color"`
	SecondaryColor string   `json:"secondary_color"`
	Style          string   `json:"style,omitempty"`
	FitType        string   `json:"fit_type,omitempty"`
	ClosestPalette string   `json:"closest_palette,omitempty"`
}
