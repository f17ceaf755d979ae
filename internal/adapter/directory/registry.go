// internal/adapter/directory/registry.go

package directory

import (
	"context"
	"fmt"

	"sitefix/internal/domain/geo"
)

// NearbyFinder is the storage surface the registry directory needs
type NearbyFinder interface {
	FindNearby(ctx context.Context, tenantID string, coord geo.Coordinate, radiusMeters float64) ([]geo.BusinessCandidate, error)
}

// Registry serves directory lookups from the tenant's own business registry
// instead of an external places API. Deployments whose reportable locations
// are exactly their registered businesses run on this provider and skip the
// external dependency entirely.
type Registry struct {
	finder   NearbyFinder
	tenantID string
}

// NewRegistry creates a registry-backed directory
func NewRegistry(finder NearbyFinder, tenantID string) *Registry {
	return &Registry{
		finder:   finder,
		tenantID: tenantID,
	}
}

// Search returns registered businesses near a coordinate, closest first
func (r *Registry) Search(ctx context.Context, coord geo.Coordinate, radiusMeters float64, typeFilter geo.BusinessType) ([]geo.BusinessCandidate, error) {
	candidates, err := r.finder.FindNearby(ctx, r.tenantID, coord, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("%w: registry lookup: %v", geo.ErrLookupNetwork, err)
	}

	if typeFilter != "" {
		filtered := candidates[:0]
		for _, c := range candidates {
			if c.Type == typeFilter {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		return nil, geo.ErrNoResults
	}

	return candidates, nil
}
