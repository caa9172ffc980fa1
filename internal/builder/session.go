package builder

import (
	"fmt"

	"github.com/loomcli/loom/internal/common"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// Phase is the session's position in the compose/generate/rate/retrain
// cycle.
type Phase int

const (
	// PhaseComposing: slots partially filled, nothing in flight.
	PhaseComposing Phase = iota
	// PhaseGenerating: a resolve call is outstanding; input is blocked and
	// further triggers are dropped.
	PhaseGenerating
	// PhaseGenerated: an outfit is displayed and unrated.
	PhaseGenerated
	// PhaseRating: a rating submission is outstanding.
	PhaseRating
	// PhaseRated: the displayed outfit has a recorded rating. Terminal for
	// this outfit instance until the builder resets or regenerates.
	PhaseRated
	// PhaseRetraining: the exclusive blocking retrain state.
	PhaseRetraining
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseComposing:
		return "composing"
	case PhaseGenerating:
		return "generating"
	case PhaseGenerated:
		return "generated"
	case PhaseRating:
		return "rating"
	case PhaseRated:
		return "rated"
	case PhaseRetraining:
		return "retraining"
	}
	return "unknown"
}

// Resolve identifies one outstanding resolve call. Responses carry it back;
// a response whose generation no longer matches the session is stale and is
// discarded rather than applied.
type Resolve struct {
	Request    service.BuildRequest
	Generation uint64
	Random     bool
}

// Session is the single state container for the outfit builder. All
// mutations go through its named operations; it is owned by one screen and
// never shared between concurrent callers.
type Session struct {
	outfit       *model.Outfit
	slots        Slots
	generation   uint64
	phase        Phase
	stars        int
	pendingStars int
}

// NewSession returns a session in the initial all-slots-empty state.
func NewSession() *Session {
	return &Session{phase: PhaseComposing}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Slots returns a copy of the current slot state.
func (s *Session) Slots() Slots { return s.slots }

// Outfit returns the displayed outfit, or nil when none is shown.
func (s *Session) Outfit() *model.Outfit { return s.outfit }

// Stars returns the recorded star value once the outfit is rated, else 0.
func (s *Session) Stars() int { return s.stars }

// Generation returns the current generation counter. Deferred work scheduled
// against the session captures it and re-checks on delivery.
func (s *Session) Generation() uint64 { return s.generation }

// Busy reports whether a network operation owns the session. While busy all
// user operations are dropped, not queued.
func (s *Session) Busy() bool {
	return s.phase == PhaseGenerating || s.phase == PhaseRating || s.phase == PhaseRetraining
}

// Select fills one slot, leaving the others untouched. Any displayed outfit
// and rating state are invalidated the instant the slot changes. When the
// select fills the last empty slot the session auto-triggers exactly one
// resolve: the returned Resolve is non-nil and the session is already in
// PhaseGenerating.
func (s *Session) Select(role model.ItemType, clothingID string) (*Resolve, error) {
	if s.Busy() {
		return nil, common.ErrResolveInFlight
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid garment role %q", role)
	}

	id := clothingID
	s.slots.set(role, &id)
	s.invalidate()

	if !s.slots.Complete() {
		return nil, nil
	}
	return s.beginResolve(s.slots.BuildRequest(), false), nil
}

// Clear nulls exactly one slot. Idempotent: clearing an already empty slot
// leaves the state unchanged apart from outfit invalidation.
func (s *Session) Clear(role model.ItemType) error {
	if s.Busy() {
		return common.ErrResolveInFlight
	}
	s.slots.set(role, nil)
	s.invalidate()
	return nil
}

// FillEmpty explicitly asks the server to complete the partial slot state.
// Unlike Select, partial states never auto-trigger; this is the user's
// "fill empty slots" action.
func (s *Session) FillEmpty() (*Resolve, error) {
	if s.Busy() {
		return nil, common.ErrResolveInFlight
	}
	return s.beginResolve(s.slots.BuildRequest(), false), nil
}

// Random asks the server for an unconstrained outfit.
func (s *Session) Random() (*Resolve, error) {
	if s.Busy() {
		return nil, common.ErrResolveInFlight
	}
	return s.beginResolve(service.BuildRequest{}, true), nil
}

func (s *Session) beginResolve(req service.BuildRequest, random bool) *Resolve {
	s.invalidate()
	s.generation++
	s.phase = PhaseGenerating
	return &Resolve{Request: req, Random: random, Generation: s.generation}
}

// ResolveSucceeded applies a resolve response: all three slots are replaced
// atomically with the returned outfit's identifiers, even where the user
// had supplied them. Stale responses report false and change nothing.
func (s *Session) ResolveSucceeded(generation uint64, outfit model.Outfit) bool {
	if s.phase != PhaseGenerating || generation != s.generation {
		return false
	}
	s.slots.applyOutfit(outfit)
	o := outfit
	s.outfit = &o
	s.phase = PhaseGenerated
	return true
}

// ResolveFailed abandons a resolve: slot state is left exactly as it was
// before the call and no stale outfit is shown.
func (s *Session) ResolveFailed(generation uint64) bool {
	if s.phase != PhaseGenerating || generation != s.generation {
		return false
	}
	s.outfit = nil
	s.phase = PhaseComposing
	return true
}

// BeginRating starts a rating submission for the displayed outfit. Rating
// is blocked once this outfit instance has been rated, until the builder
// resets or regenerates.
func (s *Session) BeginRating(stars int) (model.Outfit, uint64, error) {
	switch s.phase {
	case PhaseRated:
		return model.Outfit{}, 0, common.ErrAlreadyRated
	case PhaseGenerated:
	default:
		return model.Outfit{}, 0, common.ErrNoOutfit
	}
	if err := model.ValidateStars(stars); err != nil {
		return model.Outfit{}, 0, err
	}

	s.generation++
	s.phase = PhaseRating
	s.pendingStars = stars
	return *s.outfit, s.generation, nil
}

// RatingSucceeded marks the outfit rated and remembers which star value was
// chosen. The caller is responsible for refreshing stats and the recent
// cache, and for sequencing a retrain when the response demands one.
func (s *Session) RatingSucceeded(generation uint64) bool {
	if s.phase != PhaseRating || generation != s.generation {
		return false
	}
	s.stars = s.pendingStars
	s.pendingStars = 0
	s.phase = PhaseRated
	return true
}

// RatingFailed returns to the unrated displayed outfit so the user can try
// again. The outfit itself is unchanged.
func (s *Session) RatingFailed(generation uint64) bool {
	if s.phase != PhaseRating || generation != s.generation {
		return false
	}
	s.pendingStars = 0
	s.phase = PhaseGenerated
	return true
}

// BeginRetrain enters the exclusive blocking retrain state. Only legal
// immediately after a successful rating: the retrain call is never issued
// before, or concurrently with, the rating call.
func (s *Session) BeginRetrain() error {
	if s.phase != PhaseRated {
		return common.ErrNoOutfit
	}
	s.phase = PhaseRetraining
	return nil
}

// RetrainFinished clears the blocking state, for success and failure alike.
// Retrain failures never roll back the rating: it is already recorded
// server-side.
func (s *Session) RetrainFinished() {
	if s.phase == PhaseRetraining {
		s.phase = PhaseRated
	}
}

// Reset returns the builder to the all-slots-empty state, clearing the
// outfit and rating. Called after the post-rating display delay or on an
// explicit user reset.
func (s *Session) Reset() {
	s.slots.reset()
	s.invalidate()
	s.generation++
}

// ShowRated displays an outfit reconstructed from a past rating. It is born
// already rated: submitting it again is blocked until the user composes or
// regenerates.
func (s *Session) ShowRated(rating model.Rating) error {
	if s.Busy() {
		return common.ErrResolveInFlight
	}
	outfit := rating.Outfit()
	s.slots.applyOutfit(outfit)
	s.outfit = &outfit
	s.stars = rating.Stars
	s.generation++
	s.phase = PhaseRated
	return nil
}

// ItemDeleted clears any slot still referencing a deleted catalog item and
// invalidates the displayed outfit. No-op while an operation is in flight;
// the response will overwrite the slots anyway.
func (s *Session) ItemDeleted(clothingID string) {
	if s.Busy() {
		return
	}
	cleared := false
	for _, role := range model.ItemTypes() {
		if slot := s.slots.Get(role); slot != nil && *slot == clothingID {
			s.slots.set(role, nil)
			cleared = true
		}
	}
	if cleared {
		s.invalidate()
	}
}

// invalidate drops the displayed outfit and any rating state. Every slot
// mutation goes through here: the outfit is unconfirmed the instant any
// slot changes post-generation.
func (s *Session) invalidate() {
	s.outfit = nil
	s.stars = 0
	s.pendingStars = 0
	s.phase = PhaseComposing
}
