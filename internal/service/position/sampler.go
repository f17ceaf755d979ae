// internal/service/position/sampler.go

package position

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sitefix/internal/domain/geo"
)

// FixProvider supplies raw positioning fixes. Implementations wrap whatever
// actually produces the fix: a device-submitted report, a gpsd socket, a
// simulator in tests.
type FixProvider interface {
	// Fix returns the most recent fix, blocking until one is available or
	// the context is done
	Fix(ctx context.Context) (geo.Coordinate, error)
}

// SamplerConfig contains configuration for the position sampler
type SamplerConfig struct {
	Timeout   time.Duration
	Freshness time.Duration
}

// DefaultSamplerConfig returns the default sampler configuration
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Timeout:   10 * time.Second,
		Freshness: 30 * time.Second,
	}
}

// Sampler acquires a single fresh coordinate from a fix provider, enforcing a
// timeout and a freshness window. A fix older than the freshness window is a
// stale failure, never silently accepted.
type Sampler struct {
	provider FixProvider
	config   SamplerConfig
}

// NewSampler creates a new position sampler
func NewSampler(provider FixProvider, config SamplerConfig) *Sampler {
	if config.Timeout <= 0 {
		config.Timeout = DefaultSamplerConfig().Timeout
	}
	if config.Freshness <= 0 {
		config.Freshness = DefaultSamplerConfig().Freshness
	}

	return &Sampler{
		provider: provider,
		config:   config,
	}
}

// Sample requests a single fresh fix
func (s *Sampler) Sample(ctx context.Context) (geo.Coordinate, error) {
	sampleCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	fix, err := s.provider.Fix(sampleCtx)
	if err != nil {
		// Caller cancellation is not a sampler failure
		if ctx.Err() != nil {
			return geo.Coordinate{}, ctx.Err()
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return geo.Coordinate{}, fmt.Errorf("%w: no fix after %s", geo.ErrPositionTimeout, s.config.Timeout)
		}

		if errors.Is(err, geo.ErrPermissionDenied) ||
			errors.Is(err, geo.ErrPositionTimeout) ||
			errors.Is(err, geo.ErrPositionUnavailable) {
			return geo.Coordinate{}, err
		}

		return geo.Coordinate{}, fmt.Errorf("%w: %v", geo.ErrPositionUnavailable, err)
	}

	if age := time.Since(fix.CapturedAt); age > s.config.Freshness {
		return geo.Coordinate{}, fmt.Errorf("%w: fix is %s old", geo.ErrStaleFix, age.Round(time.Second))
	}

	return fix, nil
}
