// internal/service/detect/fallback.go

package detect

import (
	"time"

	"github.com/google/uuid"

	"sitefix/internal/domain/business"
	"sitefix/internal/domain/geo"
	"sitefix/internal/metrics"
)

// FallbackManager produces a manual-selection context when automated
// detection is exhausted or impossible. The human must choose, so there is no
// suggested candidate and no ranking beyond the caller-provided order.
type FallbackManager struct{}

// NewFallbackManager creates a new fallback manager
func NewFallbackManager() *FallbackManager {
	return &FallbackManager{}
}

// BuildManualContext builds a manual-selection context over the full business
// list. It fails only when the list itself is empty, an unrecoverable state
// the caller must surface as a hard "no locations available" error.
func (f *FallbackManager) BuildManualContext(businesses []business.Business) (*geo.LocationContext, error) {
	if len(businesses) == 0 {
		return nil, geo.ErrNoBusinesses
	}

	candidates := make([]geo.BusinessCandidate, 0, len(businesses))
	for _, b := range businesses {
		candidates = append(candidates, geo.BusinessCandidate{
			ID:      b.ID,
			Name:    b.Name,
			Type:    b.Type,
			Address: b.Address,
		})
	}

	metrics.FallbacksTotal.Inc()

	return &geo.LocationContext{
		ID:                   uuid.New().String(),
		Candidates:           candidates,
		Suggested:            nil,
		Method:               geo.MethodManualSelection,
		Confidence:           1.0,
		RequiresConfirmation: true,
		UserConfirmed:        false,
		CreatedAt:            time.Now(),
	}, nil
}
