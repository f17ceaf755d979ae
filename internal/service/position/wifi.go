// internal/service/position/wifi.go

package position

import (
	"context"
	"time"

	"sitefix/internal/domain/geo"
)

// SignatureSource supplies ambient wireless scans
type SignatureSource interface {
	// Scan returns the currently visible network identifiers
	Scan(ctx context.Context) (*geo.WirelessSignature, error)
}

// DefaultCollectBudget bounds how long a wireless scan may delay detection
const DefaultCollectBudget = 2 * time.Second

// Collector captures an ambient wireless signature as a secondary
// disambiguation signal. Collection is best-effort: any restriction, error or
// budget overrun yields nil rather than failing the overall detection.
type Collector struct {
	source SignatureSource
	budget time.Duration
}

// NewCollector creates a new wireless signature collector
func NewCollector(source SignatureSource, budget time.Duration) *Collector {
	if budget <= 0 {
		budget = DefaultCollectBudget
	}

	return &Collector{
		source: source,
		budget: budget,
	}
}

// Collect returns the current wireless signature, or nil if none could be
// captured within the budget
func (c *Collector) Collect(ctx context.Context) *geo.WirelessSignature {
	if c.source == nil {
		return nil
	}

	scanCtx, cancel := context.WithTimeout(ctx, c.budget)
	defer cancel()

	type scanResult struct {
		sig *geo.WirelessSignature
		err error
	}

	results := make(chan scanResult, 1)
	go func() {
		sig, err := c.source.Scan(scanCtx)
		results <- scanResult{sig: sig, err: err}
	}()

	select {
	case <-scanCtx.Done():
		return nil
	case res := <-results:
		if res.err != nil || res.sig == nil || len(res.sig.NetworkIDs) == 0 {
			return nil
		}
		return res.sig
	}
}
