package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitefix/internal/domain/geo"
)

func testCoordinate() geo.Coordinate {
	return geo.Coordinate{
		Latitude:       40.7128,
		Longitude:      -74.0060,
		AccuracyMeters: 10,
		CapturedAt:     time.Now(),
	}
}

func TestClientSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/places/nearby", r.URL.Path)
		assert.Equal(t, "250", r.URL.Query().Get("radius"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"results": [
				{"place_id": "p1", "name": "Corner Cafe", "category": "cafe", "distance_m": 12.5},
				{"place_id": "p2", "name": "Hardware Depot", "category": "Home Improvement", "lat": 40.7132, "lng": -74.0060}
			]
		}`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL})

	candidates, err := client.Search(context.Background(), testCoordinate(), 250, "")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "p1", candidates[0].ID)
	assert.Equal(t, geo.TypeCafe, candidates[0].Type)
	assert.Equal(t, 12.5, candidates[0].DistanceMeters)

	// Unmapped category falls through to other; missing distance is computed
	assert.Equal(t, geo.TypeOther, candidates[1].Type)
	assert.InDelta(t, 44.5, candidates[1].DistanceMeters, 5)
}

func TestClientRateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL})

	_, err := client.Search(context.Background(), testCoordinate(), 250, "")
	assert.ErrorIs(t, err, geo.ErrLookupRateLimited)
}

func TestClientServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL})

	_, err := client.Search(context.Background(), testCoordinate(), 250, "")
	assert.ErrorIs(t, err, geo.ErrLookupNetwork)
}

func TestClientEmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "results": []}`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL})

	_, err := client.Search(context.Background(), testCoordinate(), 250, "")
	assert.ErrorIs(t, err, geo.ErrNoResults)
	assert.True(t, IsEmptyResult(err))
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})

	_, err := client.Search(context.Background(), testCoordinate(), 250, "")
	assert.ErrorIs(t, err, geo.ErrLookupNetwork)
}

func TestClientTypeFilterParam(t *testing.T) {
	var gotCategory string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("category")
		w.Write([]byte(`{"status": "ok", "results": [{"place_id": "p1", "name": "Gym", "category": "gym", "distance_m": 3}]}`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL})

	_, err := client.Search(context.Background(), testCoordinate(), 250, geo.TypeFitness)
	require.NoError(t, err)
	assert.Equal(t, "fitness", gotCategory)
}

func TestMapCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected geo.BusinessType
	}{
		{"cafe", geo.TypeCafe},
		{"Coffee Shop", geo.TypeCafe},
		{"GAS_STATION", geo.TypeFuel},
		{" supermarket ", geo.TypeGrocery},
		{"laser tag arena", geo.TypeOther},
		{"", geo.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapCategory(tt.input))
		})
	}
}
