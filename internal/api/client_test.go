package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/loomcli/loom/internal/common"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid config", config: Config{BaseURL: "http://localhost:8000"}},
		{name: "https is fine", config: Config{BaseURL: "https://wardrobe.example.com"}},
		{name: "missing URL", config: Config{}, wantErr: true},
		{name: "bad scheme", config: Config{BaseURL: "ftp://nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	// Tests exercise failure paths; no backoff between attempts.
	client.retryOpts = &service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond}
	return client, srv
}

func TestClient_ListItems(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wardrobe/items", r.URL.Path)
		gotQuery = r.URL.Query().Get("item_type")
		_ = json.NewEncoder(w).Encode([]model.WardrobeItem{
			{ClothingID: "shirt_1", ItemType: model.ItemShirt},
			{ClothingID: "shirt_2", ItemType: model.ItemShirt},
		})
	}))

	items, err := client.ListItems(context.Background(), model.ItemShirt)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "shirt", gotQuery)

	_, err = client.ListItems(context.Background(), "sombrero")
	assert.Error(t, err)
}

func TestClient_ItemFeatures_NotFoundIsNoData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Item not found"})
	}))

	features, err := client.ItemFeatures(context.Background(), "shirt_9")
	assert.NoError(t, err)
	assert.Nil(t, features)
}

func TestClient_ListItems_RetriesServerErrors(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "feature cache rebuilding"})
			return
		}
		_ = json.NewEncoder(w).Encode([]model.WardrobeItem{{ClothingID: "pants_1", ItemType: model.ItemPants}})
	}))
	client.retryOpts = &service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond}

	items, err := client.ListItems(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, requests)
}

func TestClient_ListItems_ExhaustionKeepsServerReason(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "feature cache rebuilding"})
	}))
	client.retryOpts = &service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond}

	_, err := client.ListItems(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
	assert.Equal(t, "feature cache rebuilding", common.UserMessage(err))
}

func TestClient_DeleteItem_SurfacesServerReason(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "item is referenced by a cached prediction"})
	}))

	err := client.DeleteItem(context.Background(), "shirt_1")
	require.Error(t, err)
	assert.Equal(t, "item is referenced by a cached prediction", common.UserMessage(err))
}

func TestClient_RandomOutfit(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/outfits/random", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.Outfit{
			Shirt: "shirt_2", Pants: "pants_1", Shoes: "shoes_3",
			Score: 0.81, Source: model.SourceCachedML,
		})
	}))

	outfit, err := client.RandomOutfit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shirt_2", outfit.Shirt)
	assert.Equal(t, model.SourceCachedML, outfit.Source)
}

func TestClient_RandomOutfit_Infeasible(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "no outfit could be generated"})
	}))

	_, err := client.RandomOutfit(context.Background())
	assert.ErrorIs(t, err, common.ErrInfeasibleOutfit)
}

func TestClient_BuildOutfit_SendsOnlyFilledSlots(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/outfits/build", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(model.Outfit{
			Shirt: "shirt_1", Pants: "pants_4", Shoes: "shoes_2",
			Score: 0.66, Source: model.SourceNewML,
		})
	}))

	shirt := "shirt_1"
	outfit, err := client.BuildOutfit(context.Background(), service.BuildRequest{ShirtID: &shirt})
	require.NoError(t, err)
	assert.Equal(t, "pants_4", outfit.Pants)

	assert.Equal(t, map[string]any{"shirt_id": "shirt_1"}, gotBody)
}

func TestClient_BuildOutfit_FallsBackToAnchorComplete(t *testing.T) {
	var completeCalled bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/outfits/build":
			// Older server: route not registered.
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"})
		case "/outfits/complete":
			completeCalled = true
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "pants", req["item_type"])
			assert.Equal(t, "pants_2", req["item_id"])
			_ = json.NewEncoder(w).Encode(model.Outfit{
				Shirt: "shirt_1", Pants: "pants_2", Shoes: "shoes_1",
				Score: 0.5, Source: model.SourceExplorationFixed,
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	pants := "pants_2"
	outfit, err := client.BuildOutfit(context.Background(), service.BuildRequest{PantsID: &pants})
	require.NoError(t, err)
	assert.True(t, completeCalled)
	assert.Equal(t, "pants_2", outfit.Pants)
}

func TestClient_BuildOutfit_MultiSlotOnOldServer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/outfits/build", r.URL.Path, "no fallback shape exists for two anchors")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"})
	}))

	shirt, shoes := "shirt_1", "shoes_2"
	_, err := client.BuildOutfit(context.Background(), service.BuildRequest{ShirtID: &shirt, ShoesID: &shoes})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInfeasibleOutfit)
	assert.Contains(t, common.UserMessage(err), "cannot build around multiple fixed items")
}

func TestClient_BuildOutfit_InfeasibleIsNotRouteMissing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "no valid outfit for these items"})
	}))

	shirt, shoes := "shirt_1", "shoes_2"
	_, err := client.BuildOutfit(context.Background(), service.BuildRequest{ShirtID: &shirt, ShoesID: &shoes})
	assert.ErrorIs(t, err, common.ErrInfeasibleOutfit)
}

func TestClient_RateOutfit(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/outfits/rate", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(4), req["rating"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":        true,
			"message":        "rated 4/5 stars",
			"rating_count":   20,
			"should_retrain": true,
		})
	}))

	outfit := model.Outfit{Shirt: "shirt_1", Pants: "pants_1", Shoes: "shoes_1", Score: 0.7, Source: model.SourceNewML}
	result, err := client.RateOutfit(context.Background(), outfit, 4)
	require.NoError(t, err)
	assert.Equal(t, 20, result.RatingCount)
	assert.True(t, result.ShouldRetrain)
	assert.Equal(t, 1, requests)

	_, err = client.RateOutfit(context.Background(), outfit, 6)
	assert.Error(t, err)
	assert.Equal(t, 1, requests, "invalid stars must not reach the server")
}

func TestClient_Stats(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"wardrobe_items": {"shirt": 3, "pants": 2, "shoes": 4},
			"total_items": 9,
			"total_ratings": 12,
			"avg_rating": 3.4,
			"active_model": "v3",
			"model_accuracy": 0.78
		}`))
	}))

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 24, stats.TotalCombinations())
	assert.Equal(t, 3, stats.RatingsUntilRetrain())
	require.NotNil(t, stats.ActiveModel)
	assert.Equal(t, "v3", *stats.ActiveModel)
}

func TestClient_ListRatings(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 7, "shirt_id": "shirt_1", "pants_id": "pants_2", "shoes_id": "shoes_1", "rating": 5, "rated_at": "2025-06-02T10:00:00Z"},
			{"id": 6, "shirt_id": "shirt_3", "pants_id": "pants_1", "shoes_id": "shoes_2", "rating": 2, "rated_at": "2025-06-01T09:00:00Z"}
		]`))
	}))

	ratings, err := client.ListRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, int64(7), ratings[0].ID)
	assert.Equal(t, 5, ratings[0].Stars)
}

func TestClient_AddItem(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shoes", r.URL.Query().Get("item_type"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "sneakers.jpg", header.Filename)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"clothing_id": "shoes_5",
			"message":     "successfully added shoes_5",
		})
	}))

	result, err := client.AddItem(context.Background(), model.ItemShoes, "sneakers.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "shoes_5", result.ClothingID)
}

func TestClient_ImageURL(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/images/shirt_1", client.ImageURL("shirt_1"))
}
