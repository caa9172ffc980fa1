// Package api provides the JSON-over-HTTP client for the wardrobe backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/loomcli/loom/internal/common"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// Config holds backend connection configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend base URL: scheme must be http or https")
	}
	return nil
}

// Client implements the service.Backend interface over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	retryOpts  *service.RetryOptions
	baseURL    string
}

// NewClient creates a new backend client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "api"),
		retryOpts: &service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// errorResponse is the backend's structured failure body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// statusResponse is the backend's generic acknowledgement body.
type statusResponse struct {
	Message    string `json:"message"`
	ClothingID string `json:"clothing_id,omitempty"`
	Success    bool   `json:"success"`
}

// do issues one request and decodes a 2xx body into out. Non-2xx responses
// are classified: 404 wraps common.ErrNotFound, 5xx and transport failures
// are marked retryable, and any server-provided detail is preserved
// verbatim for display.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err),
			Retryable: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classifyError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// classifyError maps a non-2xx response onto the error taxonomy.
func (c *Client) classifyError(resp *http.Response) error {
	var detail string
	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		detail = errResp.Detail
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		if detail != "" {
			return common.NewUserError(detail, common.ErrNotFound)
		}
		return common.ErrNotFound
	case resp.StatusCode >= 500:
		err := fmt.Errorf("%w: server returned %d", common.ErrBackendUnavailable, resp.StatusCode)
		if detail != "" {
			err = common.NewUserError(detail, err)
		}
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		if detail != "" {
			return common.NewUserError(detail, fmt.Errorf("server returned %d", resp.StatusCode))
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
}

// getWithRetry wraps an idempotent GET in retry with backoff.
func (c *Client) getWithRetry(ctx context.Context, path string, query url.Values, out any) error {
	return common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, query, nil, "", out)
	}, *c.retryOpts)
}

// ListItems fetches catalog items, optionally filtered to one garment role.
// Order is the server's; the shuffle-for-display policy lives in the
// catalog package, not here.
func (c *Client) ListItems(ctx context.Context, itemType model.ItemType) ([]model.WardrobeItem, error) {
	query := url.Values{}
	if itemType != "" {
		if !itemType.Valid() {
			return nil, fmt.Errorf("invalid item type %q", itemType)
		}
		query.Set("item_type", string(itemType))
	}

	var items []model.WardrobeItem
	if err := c.getWithRetry(ctx, "/wardrobe/items", query, &items); err != nil {
		return nil, fmt.Errorf("failed to list wardrobe items: %w", err)
	}

	c.logger.Debug("Fetched wardrobe items", "count", len(items), "item_type", string(itemType))
	return items, nil
}

// AddItem uploads a new garment image. Uploads are not retried: a retry
// after an ambiguous failure could create a duplicate item.
func (c *Client) AddItem(ctx context.Context, itemType model.ItemType, filename string, image io.Reader) (*service.AddItemResult, error) {
	if !itemType.Valid() {
		return nil, fmt.Errorf("invalid item type %q", itemType)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	query := url.Values{}
	query.Set("item_type", string(itemType))

	var resp statusResponse
	if err := c.do(ctx, http.MethodPost, "/wardrobe/items", query, &buf, mw.FormDataContentType(), &resp); err != nil {
		return nil, fmt.Errorf("failed to upload item: %w", err)
	}
	if !resp.Success {
		return nil, common.NewUserError(resp.Message, fmt.Errorf("upload rejected"))
	}

	c.logger.Info("Added wardrobe item", "clothing_id", resp.ClothingID)
	return &service.AddItemResult{ClothingID: resp.ClothingID, Message: resp.Message}, nil
}

// DeleteItem removes an item from the catalog.
func (c *Client) DeleteItem(ctx context.Context, clothingID string) error {
	if clothingID == "" {
		return fmt.Errorf("clothing ID is required")
	}

	var resp statusResponse
	if err := c.do(ctx, http.MethodDelete, "/wardrobe/items/"+url.PathEscape(clothingID), nil, nil, "", &resp); err != nil {
		return fmt.Errorf("failed to delete %s: %w", clothingID, err)
	}
	if !resp.Success {
		return common.NewUserError(resp.Message, fmt.Errorf("delete rejected"))
	}

	c.logger.Info("Deleted wardrobe item", "clothing_id", clothingID)
	return nil
}

// ItemFeatures fetches derived feature attributes for one item. A 404 means
// features have not been extracted yet and is returned as (nil, nil).
func (c *Client) ItemFeatures(ctx context.Context, clothingID string) (*model.ItemFeatures, error) {
	var features model.ItemFeatures
	err := c.getWithRetry(ctx, "/wardrobe/items/"+url.PathEscape(clothingID)+"/features", nil, &features)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch features for %s: %w", clothingID, err)
	}
	return &features, nil
}

// ImageURL resolves an item's image reference by substituting its id into
// the image-fetch path. No signing or expiry.
func (c *Client) ImageURL(clothingID string) string {
	return c.baseURL + "/images/" + url.PathEscape(clothingID)
}

// RandomOutfit asks the server for an unconstrained outfit.
func (c *Client) RandomOutfit(ctx context.Context) (*model.Outfit, error) {
	var outfit model.Outfit
	if err := c.do(ctx, http.MethodGet, "/outfits/random", nil, nil, "", &outfit); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrInfeasibleOutfit, err)
		}
		return nil, fmt.Errorf("failed to fetch random outfit: %w", err)
	}
	if err := outfit.Validate(); err != nil {
		return nil, fmt.Errorf("server returned invalid outfit: %w", err)
	}
	return &outfit, nil
}

// completeRequest is the anchor-complete wire shape.
type completeRequest struct {
	ItemType model.ItemType `json:"item_type"`
	ItemID   string         `json:"item_id"`
}

// CompleteOutfit asks the server to build an outfit around a single anchor
// item. Kept as a distinct request shape for older server versions; the
// slot builder uses BuildOutfit.
func (c *Client) CompleteOutfit(ctx context.Context, itemType model.ItemType, clothingID string) (*model.Outfit, error) {
	if !itemType.Valid() {
		return nil, fmt.Errorf("invalid item type %q", itemType)
	}

	body, err := json.Marshal(completeRequest{ItemType: itemType, ItemID: clothingID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var outfit model.Outfit
	if err := c.do(ctx, http.MethodPost, "/outfits/complete", nil, bytes.NewReader(body), "application/json", &outfit); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrInfeasibleOutfit, err)
		}
		return nil, fmt.Errorf("failed to complete outfit: %w", err)
	}
	if err := outfit.Validate(); err != nil {
		return nil, fmt.Errorf("server returned invalid outfit: %w", err)
	}
	return &outfit, nil
}

// BuildOutfit sends whichever slots are filled and lets the server complete
// the rest. When the server predates /outfits/build and exactly one slot is
// constrained, the call falls back to the anchor-complete shape.
func (c *Client) BuildOutfit(ctx context.Context, req service.BuildRequest) (*model.Outfit, error) {
	if req.Empty() {
		return c.RandomOutfit(ctx)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var outfit model.Outfit
	err = c.do(ctx, http.MethodPost, "/outfits/build", nil, bytes.NewReader(body), "application/json", &outfit)
	if err != nil {
		if isRouteMissing(err) {
			if itemType, id, ok := singleAnchor(req); ok {
				c.logger.Debug("Server has no /outfits/build, falling back to anchor-complete")
				return c.CompleteOutfit(ctx, itemType, id)
			}
			// Older server, more than one slot fixed: no fallback shape can
			// carry the request. This is a protocol gap, not an empty
			// wardrobe, and the message must say so.
			return nil, common.NewUserError(
				"This server cannot build around multiple fixed items; fix a single item or upgrade the server",
				fmt.Errorf("server has no /outfits/build route"))
		}
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrInfeasibleOutfit, err)
		}
		return nil, fmt.Errorf("failed to build outfit: %w", err)
	}
	if err := outfit.Validate(); err != nil {
		return nil, fmt.Errorf("server returned invalid outfit: %w", err)
	}
	return &outfit, nil
}

// rateRequest is the rating submission wire shape.
type rateRequest struct {
	ShirtID string `json:"shirt_id"`
	PantsID string `json:"pants_id"`
	ShoesID string `json:"shoes_id"`
	Rating  int    `json:"rating"`
}

// rateResponse carries the server's acknowledgement plus the retrain signal.
type rateResponse struct {
	Message       string `json:"message"`
	RatingCount   int    `json:"rating_count"`
	Success       bool   `json:"success"`
	ShouldRetrain bool   `json:"should_retrain"`
}

// RateOutfit submits a rating. Never retried: the first attempt may have
// been recorded even if the response was lost.
func (c *Client) RateOutfit(ctx context.Context, outfit model.Outfit, stars int) (*service.RateResult, error) {
	if err := model.ValidateStars(stars); err != nil {
		return nil, err
	}
	if err := outfit.Validate(); err != nil {
		return nil, fmt.Errorf("cannot rate incomplete outfit: %w", err)
	}

	body, err := json.Marshal(rateRequest{
		ShirtID: outfit.Shirt,
		PantsID: outfit.Pants,
		ShoesID: outfit.Shoes,
		Rating:  stars,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var resp rateResponse
	if err := c.do(ctx, http.MethodPost, "/outfits/rate", nil, bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}
	if !resp.Success {
		return nil, common.NewUserError(resp.Message, fmt.Errorf("rating rejected"))
	}

	c.logger.Info("Rating recorded",
		"stars", stars,
		"rating_count", resp.RatingCount,
		"should_retrain", resp.ShouldRetrain)

	return &service.RateResult{
		Message:       resp.Message,
		RatingCount:   resp.RatingCount,
		ShouldRetrain: resp.ShouldRetrain,
	}, nil
}

// retrainResponse is the retrain acknowledgement wire shape.
type retrainResponse struct {
	Message  string   `json:"message"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	Success  bool     `json:"success"`
}

// Retrain invokes a blocking model retrain on the server.
func (c *Client) Retrain(ctx context.Context) (*service.RetrainResult, error) {
	var resp retrainResponse
	if err := c.do(ctx, http.MethodPost, "/model/retrain", nil, nil, "", &resp); err != nil {
		return nil, fmt.Errorf("failed to retrain model: %w", err)
	}

	c.logger.Info("Retrain finished", "success", resp.Success, "message", resp.Message)
	return &service.RetrainResult{
		Success:  resp.Success,
		Message:  resp.Message,
		Accuracy: resp.Accuracy,
	}, nil
}

// ListRatings fetches the full rating history, newest first.
func (c *Client) ListRatings(ctx context.Context) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := c.getWithRetry(ctx, "/ratings", nil, &ratings); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

// Stats fetches the aggregate wardrobe snapshot.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.getWithRetry(ctx, "/wardrobe/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	return &stats, nil
}

// singleAnchor reports whether exactly one slot is constrained, and which.
func singleAnchor(req service.BuildRequest) (model.ItemType, string, bool) {
	type slot struct {
		id       *string
		itemType model.ItemType
	}
	var found []slot
	for _, s := range []slot{
		{req.ShirtID, model.ItemShirt},
		{req.PantsID, model.ItemPants},
		{req.ShoesID, model.ItemShoes},
	} {
		if s.id != nil {
			found = append(found, s)
		}
	}
	if len(found) != 1 {
		return "", "", false
	}
	return found[0].itemType, *found[0].id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

// isRouteMissing matches the bare 404 the server returns for an
// unregistered route, as opposed to a handler-raised 404 that carries a
// domain detail.
func isRouteMissing(err error) bool {
	if !isNotFound(err) {
		return false
	}
	var userErr *common.UserError
	if !errors.As(err, &userErr) {
		return true
	}
	return userErr.UserMessage == "Not Found" || userErr.UserMessage == "Method Not Allowed"
}

// Ensure Client implements the Backend interface.
var _ service.Backend = (*Client)(nil)
