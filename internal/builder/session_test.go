package builder

import (
	"testing"

	"github.com/loomcli/loom/internal/common"
	"github.com/loomcli/loom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOutfit() model.Outfit {
	return model.Outfit{
		Shirt:  "shirt_9",
		Pants:  "pants_9",
		Shoes:  "shoes_9",
		Score:  0.82,
		Source: model.SourceNewML,
	}
}

// Filling the last of three empty slots must trigger exactly one resolve
// with the complete slot contents.
func TestSelect_LastSlotAutoTriggers(t *testing.T) {
	s := NewSession()

	resolve, err := s.Select(model.ItemShirt, "shirt_1")
	require.NoError(t, err)
	assert.Nil(t, resolve, "1/3 filled must not trigger")

	resolve, err = s.Select(model.ItemPants, "pants_1")
	require.NoError(t, err)
	assert.Nil(t, resolve, "2/3 filled must not trigger")
	assert.Equal(t, PhaseComposing, s.Phase())

	resolve, err = s.Select(model.ItemShoes, "shoes_1")
	require.NoError(t, err)
	require.NotNil(t, resolve, "3/3 filled must trigger")
	assert.Equal(t, PhaseGenerating, s.Phase())

	require.NotNil(t, resolve.Request.ShirtID)
	require.NotNil(t, resolve.Request.PantsID)
	require.NotNil(t, resolve.Request.ShoesID)
	assert.Equal(t, "shirt_1", *resolve.Request.ShirtID)
	assert.Equal(t, "pants_1", *resolve.Request.PantsID)
	assert.Equal(t, "shoes_1", *resolve.Request.ShoesID)
}

// Any trigger received while a resolve is outstanding is dropped, not
// queued.
func TestSelect_DroppedWhileGenerating(t *testing.T) {
	s := NewSession()
	_, _ = s.Select(model.ItemShirt, "shirt_1")
	_, _ = s.Select(model.ItemPants, "pants_1")
	resolve, err := s.Select(model.ItemShoes, "shoes_1")
	require.NoError(t, err)
	require.NotNil(t, resolve)

	_, err = s.Select(model.ItemShirt, "shirt_2")
	assert.ErrorIs(t, err, common.ErrResolveInFlight)
	_, err = s.FillEmpty()
	assert.ErrorIs(t, err, common.ErrResolveInFlight)
	_, err = s.Random()
	assert.ErrorIs(t, err, common.ErrResolveInFlight)

	// The original resolve still applies.
	assert.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))
}

// On success the slots equal exactly the returned outfit, regardless of
// what the user had supplied.
func TestResolveSucceeded_AtomicReplacement(t *testing.T) {
	s := NewSession()
	_, _ = s.Select(model.ItemShirt, "shirt_1")
	_, _ = s.Select(model.ItemPants, "pants_1")
	resolve, _ := s.Select(model.ItemShoes, "shoes_1")

	require.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))

	slots := s.Slots()
	require.True(t, slots.Complete())
	assert.Equal(t, "shirt_9", *slots.Shirt)
	assert.Equal(t, "pants_9", *slots.Pants)
	assert.Equal(t, "shoes_9", *slots.Shoes)
	assert.Equal(t, PhaseGenerated, s.Phase())
	require.NotNil(t, s.Outfit())
	assert.Equal(t, testOutfit(), *s.Outfit())
}

// On failure slot state is unchanged and no stale outfit is shown.
func TestResolveFailed_SlotsUnchanged(t *testing.T) {
	s := NewSession()
	_, _ = s.Select(model.ItemShirt, "shirt_1")
	resolve, err := s.FillEmpty()
	require.NoError(t, err)

	require.True(t, s.ResolveFailed(resolve.Generation))

	slots := s.Slots()
	require.NotNil(t, slots.Shirt)
	assert.Equal(t, "shirt_1", *slots.Shirt)
	assert.Nil(t, slots.Pants)
	assert.Nil(t, slots.Shoes)
	assert.Nil(t, s.Outfit())
	assert.Equal(t, PhaseComposing, s.Phase())
}

// A response from a superseded resolve is discarded via the generation
// counter.
func TestResolve_StaleResponseDiscarded(t *testing.T) {
	s := NewSession()
	first, err := s.Random()
	require.NoError(t, err)
	require.True(t, s.ResolveFailed(first.Generation))

	second, err := s.Random()
	require.NoError(t, err)

	assert.False(t, s.ResolveSucceeded(first.Generation, testOutfit()), "stale success must be dropped")
	assert.Nil(t, s.Outfit())

	assert.True(t, s.ResolveSucceeded(second.Generation, testOutfit()))
}

func TestClear_Idempotent(t *testing.T) {
	s := NewSession()
	_, _ = s.Select(model.ItemPants, "pants_1")

	require.NoError(t, s.Clear(model.ItemPants))
	assert.Nil(t, s.Slots().Pants)

	require.NoError(t, s.Clear(model.ItemPants))
	assert.Nil(t, s.Slots().Pants)
	assert.Equal(t, PhaseComposing, s.Phase())
}

// Changing a slot after generation invalidates the displayed outfit and any
// rating state.
func TestSlotChange_InvalidatesOutfit(t *testing.T) {
	s := NewSession()
	resolve, _ := s.Random()
	require.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))
	require.NotNil(t, s.Outfit())

	_, err := s.Select(model.ItemShirt, "shirt_2")
	require.NoError(t, err)

	assert.Nil(t, s.Outfit())
	assert.Equal(t, 0, s.Stars())
}

// Rating a given outfit instance a second time must not issue a second
// request.
func TestBeginRating_SecondRatingBlocked(t *testing.T) {
	s := NewSession()
	resolve, _ := s.Random()
	require.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))

	outfit, gen, err := s.BeginRating(4)
	require.NoError(t, err)
	assert.Equal(t, testOutfit(), outfit)
	require.True(t, s.RatingSucceeded(gen))
	assert.Equal(t, 4, s.Stars())
	assert.Equal(t, PhaseRated, s.Phase())

	_, _, err = s.BeginRating(5)
	assert.ErrorIs(t, err, common.ErrAlreadyRated)
}

func TestBeginRating_RequiresOutfit(t *testing.T) {
	s := NewSession()
	_, _, err := s.BeginRating(3)
	assert.ErrorIs(t, err, common.ErrNoOutfit)

	_, _ = s.Select(model.ItemShirt, "shirt_1")
	_, _, err = s.BeginRating(3)
	assert.ErrorIs(t, err, common.ErrNoOutfit)
}

func TestBeginRating_RejectsInvalidStars(t *testing.T) {
	s := NewSession()
	resolve, _ := s.Random()
	require.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))

	for _, stars := range []int{0, 6, -1} {
		_, _, err := s.BeginRating(stars)
		assert.Error(t, err)
	}
	assert.Equal(t, PhaseGenerated, s.Phase())
}

// A failed submission returns to the unrated outfit so the user can retry.
func TestRatingFailed_AllowsRetry(t *testing.T) {
	s := NewSession()
	resolve, _ := s.Random()
	require.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))

	_, gen, err := s.BeginRating(2)
	require.NoError(t, err)
	require.True(t, s.RatingFailed(gen))

	assert.Equal(t, PhaseGenerated, s.Phase())
	assert.Equal(t, 0, s.Stars())

	_, gen, err = s.BeginRating(3)
	require.NoError(t, err)
	assert.True(t, s.RatingSucceeded(gen))
}

// The retrain call happens only after the rating call has resolved
// successfully, never before and never concurrently.
func TestRetrain_SequencedAfterRating(t *testing.T) {
	s := NewSession()

	// No rating recorded yet: retrain is not legal.
	assert.Error(t, s.BeginRetrain())

	resolve, _ := s.Random()
	require.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))
	assert.Error(t, s.BeginRetrain(), "retrain before the rating resolves is illegal")

	_, gen, err := s.BeginRating(5)
	require.NoError(t, err)
	assert.Error(t, s.BeginRetrain(), "retrain concurrent with the rating is illegal")

	require.True(t, s.RatingSucceeded(gen))
	require.NoError(t, s.BeginRetrain())
	assert.Equal(t, PhaseRetraining, s.Phase())
	assert.True(t, s.Busy())

	// Clearing the blocking state works for success and failure alike, and
	// the rating survives.
	s.RetrainFinished()
	assert.Equal(t, PhaseRated, s.Phase())
	assert.Equal(t, 5, s.Stars())
}

// After the post-rating display delay the builder resets wholesale.
func TestReset_ClearsEverything(t *testing.T) {
	s := NewSession()
	resolve, _ := s.Random()
	require.True(t, s.ResolveSucceeded(resolve.Generation, testOutfit()))
	_, gen, _ := s.BeginRating(3)
	require.True(t, s.RatingSucceeded(gen))

	s.Reset()

	assert.True(t, s.Slots().Empty())
	assert.Nil(t, s.Outfit())
	assert.Equal(t, 0, s.Stars())
	assert.Equal(t, PhaseComposing, s.Phase())
}

// A recent rating reconstructs a synthetic outfit that is born rated and
// cannot be re-submitted without new user action.
func TestShowRated_BornRated(t *testing.T) {
	s := NewSession()
	rating := model.Rating{ShirtID: "shirt_2", PantsID: "pants_3", ShoesID: "shoes_1", Stars: 5}

	require.NoError(t, s.ShowRated(rating))

	assert.Equal(t, PhaseRated, s.Phase())
	assert.Equal(t, 5, s.Stars())
	require.NotNil(t, s.Outfit())
	assert.InDelta(t, 1.0, s.Outfit().Score, 1e-9)
	assert.Equal(t, model.UserRatingSource(5), s.Outfit().Source)

	_, _, err := s.BeginRating(4)
	assert.ErrorIs(t, err, common.ErrAlreadyRated)

	// New user action on a slot unlocks the builder again. The replayed
	// outfit left every slot filled, so the select completes the set and
	// auto-triggers a resolve.
	resolve, err := s.Select(model.ItemShirt, "shirt_7")
	require.NoError(t, err)
	require.NotNil(t, resolve)
	assert.Nil(t, s.Outfit())
	assert.Equal(t, PhaseGenerating, s.Phase())
	require.NotNil(t, resolve.Request.ShirtID)
	assert.Equal(t, "shirt_7", *resolve.Request.ShirtID)
}

// Deleting a catalog item clears any slot still referencing it.
func TestItemDeleted_ClearsMatchingSlot(t *testing.T) {
	s := NewSession()
	_, _ = s.Select(model.ItemShirt, "shirt_1")
	_, _ = s.Select(model.ItemPants, "pants_1")

	s.ItemDeleted("shirt_1")

	slots := s.Slots()
	assert.Nil(t, slots.Shirt)
	require.NotNil(t, slots.Pants)
	assert.Equal(t, "pants_1", *slots.Pants)

	// Unreferenced deletions change nothing.
	s.ItemDeleted("shoes_4")
	assert.NotNil(t, s.Slots().Pants)
}
