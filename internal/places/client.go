// Package places is the HTTP client for the Google Places API: nearby search
// with pagination and per-place details with an explicit field list.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/lead"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// The API requires a pause before a next_page_token becomes usable.
const pageTokenDelay = 2200 * time.Millisecond

// SearchParams describe one nearby search.
type SearchParams struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Keyword      string
	PlaceType    string
}

// Client talks to the Places API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger

	// pause is swapped out in tests so pagination does not sleep for real.
	pause func(ctx context.Context, d time.Duration)
}

// NewClient builds a Client with a bounded-timeout HTTP client.
func NewClient(apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		pause:   sleepCtx,
	}
}

// NearbyAll runs a nearby search and follows next_page_token until the
// API stops returning one, pausing before each follow-up page.
func (c *Client) NearbyAll(ctx context.Context, p SearchParams) ([]lead.Summary, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", p.Lat, p.Lng))
	q.Set("radius", strconv.Itoa(p.RadiusMeters))
	q.Set("keyword", p.Keyword)
	if p.PlaceType != "" {
		q.Set("type", p.PlaceType)
	}
	q.Set("key", c.apiKey)

	var out []lead.Summary
	page, err := c.nearbyPage(ctx, q)
	if err != nil {
		return nil, err
	}
	out = append(out, page.summaries()...)

	for page.NextPageToken != "" {
		c.pause(ctx, pageTokenDelay)
		if err := ctx.Err(); err != nil {
			return out, err
		}
		next := url.Values{}
		next.Set("pagetoken", page.NextPageToken)
		next.Set("key", c.apiKey)
		page, err = c.nearbyPage(ctx, next)
		if err != nil {
			return out, err
		}
		out = append(out, page.summaries()...)
	}
	return out, nil
}

// Details fetches the detail record for one place. A failed or empty
// response is reported as an error; the caller treats it as a skip.
func (c *Client) Details(ctx context.Context, placeID string) (lead.Details, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "name,formatted_address,website,rating,user_ratings_total,photos,place_id")
	q.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.get(ctx, "/details/json", q, &resp); err != nil {
		return lead.Details{}, err
	}
	if resp.Status != "OK" {
		return lead.Details{}, fmt.Errorf("place details status %q for %s", resp.Status, placeID)
	}
	r := resp.Result
	id := r.PlaceID
	if id == "" {
		id = placeID
	}
	return lead.Details{
		PlaceID:          id,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Website:          r.Website,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		PhotosCount:      len(r.Photos),
	}, nil
}

func (c *Client) nearbyPage(ctx context.Context, q url.Values) (nearbyResponse, error) {
	var resp nearbyResponse
	if err := c.get(ctx, "/nearbysearch/json", q, &resp); err != nil {
		return nearbyResponse{}, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nearbyResponse{}, fmt.Errorf("nearby search status %q", resp.Status)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build places request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("places request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("close places response body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places request status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
