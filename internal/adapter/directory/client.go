// internal/adapter/directory/client.go

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sitefix/internal/domain/geo"
)

// Config contains configuration for the directory client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client queries an external place-directory service for businesses near a
// coordinate. The provider's own ranking is consumed as a black box; results
// are re-ranked downstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new directory client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// placeResult represents one entry in the directory API response
type placeResult struct {
	PlaceID        string  `json:"place_id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Address        string  `json:"address,omitempty"`
	Latitude       float64 `json:"lat"`
	Longitude      float64 `json:"lng"`
	DistanceMeters float64 `json:"distance_m,omitempty"`
}

// placesResponse represents the structure of the directory API response
type placesResponse struct {
	Results []placeResult `json:"results"`
	Status  string        `json:"status"`
}

// Search returns businesses near a coordinate, closest first as returned by
// the provider. typeFilter narrows the search to one business category; the
// zero value searches all categories.
func (c *Client) Search(ctx context.Context, coord geo.Coordinate, radiusMeters float64, typeFilter geo.BusinessType) ([]geo.BusinessCandidate, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.FormatFloat(radiusMeters, 'f', 0, 64))
	if typeFilter != "" {
		params.Set("category", string(typeFilter))
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	endpoint := fmt.Sprintf("%s/v1/places/nearby?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", geo.ErrLookupNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, geo.ErrLookupRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: directory returned status %d", geo.ErrLookupNetwork, resp.StatusCode)
	}

	var payload placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", geo.ErrLookupNetwork, err)
	}

	if len(payload.Results) == 0 {
		return nil, geo.ErrNoResults
	}

	candidates := make([]geo.BusinessCandidate, 0, len(payload.Results))
	for _, place := range payload.Results {
		if place.PlaceID == "" {
			continue
		}

		distance := place.DistanceMeters
		if distance <= 0 {
			distance = geo.Distance(coord, geo.Coordinate{
				Latitude:  place.Latitude,
				Longitude: place.Longitude,
			})
		}

		candidates = append(candidates, geo.BusinessCandidate{
			ID:             place.PlaceID,
			Name:           place.Name,
			Type:           MapCategory(place.Category),
			DistanceMeters: distance,
			Address:        place.Address,
		})
	}

	if len(candidates) == 0 {
		return nil, geo.ErrNoResults
	}

	return candidates, nil
}

// IsEmptyResult reports whether a search error was a zero-result response
// rather than a transport failure
func IsEmptyResult(err error) bool {
	return errors.Is(err, geo.ErrNoResults)
}
