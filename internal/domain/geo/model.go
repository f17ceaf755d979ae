package geo

import (
	"time"
)

// Coordinate represents a single positioning fix
type Coordinate struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	CapturedAt     time.Time `json:"captured_at"`
}

// WirelessSignature is a set of locally visible network identifiers used as a
// secondary, coarse-grained location disambiguator
type WirelessSignature struct {
	NetworkIDs []string  `json:"network_ids"`
	CapturedAt time.Time `json:"captured_at"`
}

// Overlaps reports whether any network identifier is shared with ids
func (w *WirelessSignature) Overlaps(ids []string) bool {
	if w == nil || len(w.NetworkIDs) == 0 {
		return false
	}

	seen := make(map[string]bool, len(w.NetworkIDs))
	for _, id := range w.NetworkIDs {
		seen[id] = true
	}

	for _, id := range ids {
		if seen[id] {
			return true
		}
	}

	return false
}

// BusinessType identifies the category of a business
type BusinessType string

const (
	TypeRestaurant BusinessType = "restaurant"
	TypeCafe       BusinessType = "cafe"
	TypeRetail     BusinessType = "retail"
	TypeGrocery    BusinessType = "grocery"
	TypePharmacy   BusinessType = "pharmacy"
	TypeFuel       BusinessType = "fuel"
	TypeFitness    BusinessType = "fitness"
	TypeLodging    BusinessType = "lodging"
	TypeServices   BusinessType = "services"
	TypeOther      BusinessType = "other"
)

// DetectionMethod is the provenance tag attached to a resolved location
type DetectionMethod string

const (
	MethodGPSOnly         DetectionMethod = "gps_only"
	MethodWiFiGPSHybrid   DetectionMethod = "wifi_gps_hybrid"
	MethodManualSelection DetectionMethod = "manual_selection"
)

// BusinessCandidate is one business returned by the directory lookup,
// ranked for relevance to the detected position
type BusinessCandidate struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           BusinessType `json:"type"`
	DistanceMeters float64      `json:"distance_meters"`
	Address        string       `json:"address,omitempty"`
}

// LocationContext is the aggregate result of a detection. It is immutable once
// returned to a caller; reconfirmation produces a new context rather than
// mutating the old one.
type LocationContext struct {
	ID                   string              `json:"id"`
	Coordinate           Coordinate          `json:"coordinate"`
	Signature            *WirelessSignature  `json:"signature,omitempty"`
	Candidates           []BusinessCandidate `json:"candidates"`
	Suggested            *BusinessCandidate  `json:"suggested,omitempty"`
	Method               DetectionMethod     `json:"method"`
	Confidence           float64             `json:"confidence"`
	RequiresConfirmation bool                `json:"requires_confirmation"`
	UserConfirmed        bool                `json:"user_confirmed"`
	CreatedAt            time.Time           `json:"created_at"`
}

// Clone returns a deep copy of the context. Callers that need a modified
// context (e.g., confirmation) copy first so the original stays untouched.
func (lc *LocationContext) Clone() *LocationContext {
	if lc == nil {
		return nil
	}

	dup := *lc

	dup.Candidates = make([]BusinessCandidate, len(lc.Candidates))
	copy(dup.Candidates, lc.Candidates)

	if lc.Suggested != nil {
		s := *lc.Suggested
		dup.Suggested = &s
	}

	if lc.Signature != nil {
		sig := *lc.Signature
		sig.NetworkIDs = make([]string, len(lc.Signature.NetworkIDs))
		copy(sig.NetworkIDs, lc.Signature.NetworkIDs)
		dup.Signature = &sig
	}

	return &dup
}
