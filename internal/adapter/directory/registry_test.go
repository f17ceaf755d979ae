package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitefix/internal/domain/geo"
)

// nearbyFinderFunc adapts a function to the NearbyFinder interface
type nearbyFinderFunc func(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error)

func (f nearbyFinderFunc) FindNearby(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error) {
	return f(ctx, tenantID, coord, radiusMeters)
}

func TestRegistrySearch(t *testing.T) {
	var gotTenant string
	finder := nearbyFinderFunc(func(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error) {
		gotTenant = tenantID
		return []geo.BusinessCandidate{
			{ID: "b1", Name: "Corner Cafe", Type: geo.TypeCafe, DistanceMeters: 10},
			{ID: "b2", Name: "Gym", Type: geo.TypeFitness, DistanceMeters: 40},
		}, nil
	})

	registry := NewRegistry(finder, "tenant-1")

	candidates, err := registry.Search(context.Background(), testCoordinate(), 250, "")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", gotTenant)
	assert.Len(t, candidates, 2)
}

func TestRegistryTypeFilter(t *testing.T) {
	finder := nearbyFinderFunc(func(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error) {
		return []geo.BusinessCandidate{
			{ID: "b1", Type: geo.TypeCafe, DistanceMeters: 10},
			{ID: "b2", Type: geo.TypeFitness, DistanceMeters: 40},
		}, nil
	})

	registry := NewRegistry(finder, "tenant-1")

	candidates, err := registry.Search(context.Background(), testCoordinate(), 250, geo.TypeFitness)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "b2", candidates[0].ID)

	// Filtering everything out is an empty result, not a success
	_, err = registry.Search(context.Background(), testCoordinate(), 250, geo.TypePharmacy)
	assert.ErrorIs(t, err, geo.ErrNoResults)
}

func TestRegistryEmpty(t *testing.T) {
	finder := nearbyFinderFunc(func(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error) {
		return nil, nil
	})

	registry := NewRegistry(finder, "tenant-1")

	_, err := registry.Search(context.Background(), testCoordinate(), 250, "")
	assert.ErrorIs(t, err, geo.ErrNoResults)
}

func TestRegistryStorageError(t *testing.T) {
	finder := nearbyFinderFunc(func(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error) {
		return nil, errors.New("connection refused")
	})

	registry := NewRegistry(finder, "tenant-1")

	_, err := registry.Search(context.Background(), testCoordinate(), 250, "")
	assert.ErrorIs(t, err, geo.ErrLookupNetwork)
}
