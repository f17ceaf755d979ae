// internal/service/detect/ranker.go

package detect

import (
	"sort"

	"sitefix/internal/domain/geo"
)

// Affinity records which businesses were previously confirmed while wireless
// networks overlapping the current signature were visible, keyed by business
// ID. It powers the hybrid tie-break and the corroboration check.
type Affinity map[string]geo.BusinessType

// RankerConfig contains configuration for the candidate ranker
type RankerConfig struct {
	// MaxCandidates bounds the returned list
	MaxCandidates int

	// TieEpsilonMeters is the distance band within which candidates are
	// considered tied and affinity breaks the tie
	TieEpsilonMeters float64
}

// DefaultRankerConfig returns the default ranker configuration
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{
		MaxCandidates:    20,
		TieEpsilonMeters: 15.0,
	}
}

// Ranker merges position and signature signals with directory results to
// produce a ranked, deduplicated candidate list. Ranking is a pure transform:
// the same inputs always produce the same ordered output.
type Ranker struct {
	config RankerConfig
}

// NewRanker creates a new candidate ranker
func NewRanker(config RankerConfig) *Ranker {
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = DefaultRankerConfig().MaxCandidates
	}
	if config.TieEpsilonMeters <= 0 {
		config.TieEpsilonMeters = DefaultRankerConfig().TieEpsilonMeters
	}

	return &Ranker{config: config}
}

// Rank deduplicates, orders and caps the raw directory results. Within a tie
// band a candidate corroborated by the wireless signature's recorded affinity
// is preferred over plain distance order.
func (r *Ranker) Rank(raw []geo.BusinessCandidate, sig *geo.WirelessSignature, affinity Affinity) []geo.BusinessCandidate {
	if len(raw) == 0 {
		return nil
	}

	// Dedupe by directory ID, keeping the entry with the smallest distance
	byID := make(map[string]geo.BusinessCandidate, len(raw))
	for _, c := range raw {
		existing, ok := byID[c.ID]
		if !ok || c.DistanceMeters < existing.DistanceMeters {
			byID[c.ID] = c
		}
	}

	candidates := make([]geo.BusinessCandidate, 0, len(byID))
	for _, c := range byID {
		candidates = append(candidates, c)
	}

	// ID is the secondary key so output order never depends on map iteration
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceMeters != candidates[j].DistanceMeters {
			return candidates[i].DistanceMeters < candidates[j].DistanceMeters
		}
		return candidates[i].ID < candidates[j].ID
	})

	r.breakTies(candidates, sig, affinity)

	if len(candidates) > r.config.MaxCandidates {
		candidates = candidates[:r.config.MaxCandidates]
	}

	return candidates
}

// breakTies reorders each band of comparably-close candidates so that
// affinity-corroborated entries come first. Order within the corroborated and
// uncorroborated groups is preserved.
func (r *Ranker) breakTies(candidates []geo.BusinessCandidate, sig *geo.WirelessSignature, affinity Affinity) {
	if sig == nil || len(affinity) == 0 {
		return
	}

	i := 0
	for i < len(candidates) {
		j := i + 1
		for j < len(candidates) && candidates[j].DistanceMeters-candidates[i].DistanceMeters <= r.config.TieEpsilonMeters {
			j++
		}

		if j-i > 1 {
			band := candidates[i:j]
			reordered := make([]geo.BusinessCandidate, 0, len(band))
			for _, c := range band {
				if r.Corroborates(c, sig, affinity) {
					reordered = append(reordered, c)
				}
			}
			for _, c := range band {
				if !r.Corroborates(c, sig, affinity) {
					reordered = append(reordered, c)
				}
			}
			copy(band, reordered)
		}

		i = j
	}
}

// Corroborates reports whether the wireless signature's recorded affinity
// supports a candidate: either this exact business was confirmed under an
// overlapping signature before, or a business of the same category was.
func (r *Ranker) Corroborates(c geo.BusinessCandidate, sig *geo.WirelessSignature, affinity Affinity) bool {
	if sig == nil || len(affinity) == 0 {
		return false
	}

	if _, ok := affinity[c.ID]; ok {
		return true
	}

	for _, t := range affinity {
		if t == c.Type {
			return true
		}
	}

	return false
}
