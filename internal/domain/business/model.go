package business

import (
	"time"

	"sitefix/internal/domain/geo"
)

// Business is a registered physical location belonging to a tenant
type Business struct {
	ID        string           `json:"id"`
	TenantID  string           `json:"tenant_id"`
	Name      string           `json:"name"`
	Type      geo.BusinessType `json:"type"`
	Address   string           `json:"address,omitempty"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	CreatedAt time.Time        `json:"created_at"`
}

// Candidate converts the business into a detection candidate relative to a fix.
func (b Business) Candidate(from geo.Coordinate) geo.BusinessCandidate {
	return geo.BusinessCandidate{
		ID:   b.ID,
		Name: b.Name,
		Type: b.Type,
		DistanceMeters: geo.Distance(from, geo.Coordinate{
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
		}),
		Address: b.Address,
	}
}
