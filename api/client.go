package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"apthunt/models"
)

// Client is a typed wrapper over the listings backend. All filtering,
// pagination and persistence live server-side; the client only shapes
// requests and decodes responses.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{baseURL: baseURL, client: client}
}

func (c *Client) Listings(ctx context.Context, filters models.Filters) ([]models.Listing, error) {
	var listings []models.Listing
	if err := c.get(ctx, "/listings/?"+filters.Encode(), &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *Client) Listing(ctx context.Context, id int) (*models.Listing, error) {
	var listing models.Listing
	if err := c.get(ctx, "/listings/"+strconv.Itoa(id), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.get(ctx, "/listings/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Neighborhoods(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, "/listings/neighborhoods", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) NeighborhoodsGrouped(ctx context.Context) (models.GroupedNeighborhoods, error) {
	grouped := models.GroupedNeighborhoods{}
	if err := c.get(ctx, "/listings/neighborhoods/grouped", &grouped); err != nil {
		return nil, err
	}
	return grouped, nil
}

func (c *Client) Favorites(ctx context.Context) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := c.get(ctx, "/favorites/", &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (c *Client) AddFavorite(ctx context.Context, listingID int, notes string) (*models.Favorite, error) {
	body := map[string]any{"listing_id": listingID}
	if notes != "" {
		body["notes"] = notes
	}
	var favorite models.Favorite
	if err := c.do(ctx, http.MethodPost, "/favorites/", body, &favorite); err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, listingID int) error {
	return c.do(ctx, http.MethodDelete, "/favorites/by-listing/"+strconv.Itoa(listingID), nil, nil)
}

func (c *Client) RunScraper(ctx context.Context, source string, maxPages int) (*models.ScrapeResponse, error) {
	q := url.Values{}
	q.Set("source", source)
	q.Set("max_pages", strconv.Itoa(maxPages))
	var resp models.ScrapeResponse
	if err := c.do(ctx, http.MethodPost, "/scraper/run?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Correlates request and response lines in the diagnostic log; replies
	// apply in arrival order, so a stale result is otherwise invisible.
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
