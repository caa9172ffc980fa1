// Package builder implements the outfit-composition and rating-feedback
// state machine: the slot-based builder, the resolve orchestration, and the
// rating/retrain sequencing. It performs no I/O; callers run the network
// calls and feed the results back in.
package builder

import (
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// Slots holds the three garment slots, each independently nullable. A nil
// slot means "no selection", which is distinct from any pending state. All
// three nil is the initial/reset state.
type Slots struct {
	Shirt *string
	Pants *string
	Shoes *string
}

// Get returns a pointer to the slot for one garment role.
func (s Slots) Get(role model.ItemType) *string {
	switch role {
	case model.ItemShirt:
		return s.Shirt
	case model.ItemPants:
		return s.Pants
	case model.ItemShoes:
		return s.Shoes
	}
	return nil
}

func (s *Slots) set(role model.ItemType, id *string) {
	switch role {
	case model.ItemShirt:
		s.Shirt = id
	case model.ItemPants:
		s.Pants = id
	case model.ItemShoes:
		s.Shoes = id
	}
}

// FilledCount returns how many of the three slots hold a selection.
func (s Slots) FilledCount() int {
	count := 0
	for _, slot := range []*string{s.Shirt, s.Pants, s.Shoes} {
		if slot != nil {
			count++
		}
	}
	return count
}

// Complete reports whether all three slots are filled.
func (s Slots) Complete() bool {
	return s.FilledCount() == 3
}

// Empty reports whether no slot is filled.
func (s Slots) Empty() bool {
	return s.FilledCount() == 0
}

// BuildRequest converts the current slot contents into a partial-build
// request: only filled slots constrain the server.
func (s Slots) BuildRequest() service.BuildRequest {
	return service.BuildRequest{
		ShirtID: s.Shirt,
		PantsID: s.Pants,
		ShoesID: s.Shoes,
	}
}

// applyOutfit overwrites all three slots atomically with the outfit's
// identifiers, so the displayed builder always reflects exactly what was
// scored.
func (s *Slots) applyOutfit(o model.Outfit) {
	shirt, pants, shoes := o.Shirt, o.Pants, o.Shoes
	s.Shirt = &shirt
	s.Pants = &pants
	s.Shoes = &shoes
}

// reset nulls all three slots.
func (s *Slots) reset() {
	s.Shirt = nil
	s.Pants = nil
	s.Shoes = nil
}
