// internal/service/detect/scorer.go

package detect

import (
	"sitefix/internal/domain/geo"
)

// Scoring constants. The decay factor shrinks linearly from 1.0 at
// accuracyDecayStart to decayFloorFactor at accuracyDecayEnd and beyond, so a
// 0.9 base bottoms out at 0.6 and a 0.75 base at 0.5.
const (
	hybridBase    = 0.9
	singleBase    = 0.75
	ambiguousBase = 0.5

	accuracyDecayStart = 20.0
	accuracyDecayEnd   = 150.0
	decayFloorFactor   = 2.0 / 3.0

	strongCandidateMeters = 30.0

	// Below this confidence the caller may never skip explicit human
	// confirmation. Confirmation is currently always presented, so the
	// threshold is advisory and audit-only.
	confirmationThreshold = 0.8
)

// Score is the confidence annotation attached to a detection result
type Score struct {
	Confidence           float64
	RequiresConfirmation bool
}

// Scorer assigns a deterministic, explainable confidence to a ranked result.
// Rules apply in order and the first match wins.
type Scorer struct {
	ambiguityGapMeters float64
}

// NewScorer creates a new confidence scorer. ambiguityGapMeters is the gap
// below which the two closest candidates count as comparably close.
func NewScorer(ambiguityGapMeters float64) *Scorer {
	if ambiguityGapMeters <= 0 {
		ambiguityGapMeters = DefaultRankerConfig().TieEpsilonMeters
	}

	return &Scorer{ambiguityGapMeters: ambiguityGapMeters}
}

// Score computes the confidence for a ranked candidate list. corroborated
// reports whether the wireless signature supports the top candidate (the
// ranker's affinity check).
func (s *Scorer) Score(candidates []geo.BusinessCandidate, sig *geo.WirelessSignature, accuracyMeters float64, method geo.DetectionMethod, corroborated bool) Score {
	if len(candidates) == 0 {
		return Score{Confidence: 0.0, RequiresConfirmation: true}
	}

	if method == geo.MethodManualSelection {
		// Operator-asserted, not sensor-derived; the human is choosing,
		// so confirmation is the interaction itself
		return Score{Confidence: 1.0, RequiresConfirmation: true}
	}

	if sig != nil && corroborated {
		return s.withDecay(hybridBase, accuracyMeters)
	}

	top := candidates[0]
	if top.DistanceMeters < strongCandidateMeters && !s.ambiguous(candidates) {
		return s.withDecay(singleBase, accuracyMeters)
	}

	return Score{Confidence: ambiguousBase, RequiresConfirmation: true}
}

// ambiguous reports whether multiple candidates are comparably close
func (s *Scorer) ambiguous(candidates []geo.BusinessCandidate) bool {
	if len(candidates) < 2 {
		return false
	}

	return candidates[1].DistanceMeters-candidates[0].DistanceMeters <= s.ambiguityGapMeters
}

// withDecay reduces a base confidence proportionally as accuracy degrades
func (s *Scorer) withDecay(base, accuracyMeters float64) Score {
	confidence := base * decayFactor(accuracyMeters)

	return Score{
		Confidence:           confidence,
		RequiresConfirmation: confidence < confirmationThreshold,
	}
}

// decayFactor is 1.0 for accuracy at or under the decay start, shrinking
// linearly to the floor factor at the decay end and beyond
func decayFactor(accuracyMeters float64) float64 {
	if accuracyMeters <= accuracyDecayStart {
		return 1.0
	}
	if accuracyMeters >= accuracyDecayEnd {
		return decayFloorFactor
	}

	progress := (accuracyMeters - accuracyDecayStart) / (accuracyDecayEnd - accuracyDecayStart)
	return 1.0 - progress*(1.0-decayFloorFactor)
}
