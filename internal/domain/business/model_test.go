package business

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sitefix/internal/domain/geo"
)

func TestCandidate(t *testing.T) {
	b := Business{
		ID:        "b1",
		TenantID:  "tenant-1",
		Name:      "Corner Cafe",
		Type:      geo.TypeCafe,
		Address:   "1 High St",
		Latitude:  40.7128,
		Longitude: -74.0060,
	}

	// ~111m per 0.001 degrees of latitude
	from := geo.Coordinate{Latitude: 40.7138, Longitude: -74.0060}

	c := b.Candidate(from)
	assert.Equal(t, "b1", c.ID)
	assert.Equal(t, "Corner Cafe", c.Name)
	assert.Equal(t, geo.TypeCafe, c.Type)
	assert.Equal(t, "1 High St", c.Address)
	assert.InDelta(t, 111.0, c.DistanceMeters, 2.0)
}
