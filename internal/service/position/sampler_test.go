package position

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitefix/internal/domain/geo"
)

// fixProviderFunc adapts a function to the FixProvider interface
type fixProviderFunc func(ctx context.Context) (geo.Coordinate, error)

func (f fixProviderFunc) Fix(ctx context.Context) (geo.Coordinate, error) {
	return f(ctx)
}

func TestSamplerFreshFix(t *testing.T) {
	provider := fixProviderFunc(func(ctx context.Context) (geo.Coordinate, error) {
		return geo.Coordinate{
			Latitude:       40.7128,
			Longitude:      -74.0060,
			AccuracyMeters: 10,
			CapturedAt:     time.Now(),
		}, nil
	})

	sampler := NewSampler(provider, DefaultSamplerConfig())

	fix, err := sampler.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40.7128, fix.Latitude)
}

func TestSamplerStaleFix(t *testing.T) {
	provider := fixProviderFunc(func(ctx context.Context) (geo.Coordinate, error) {
		return geo.Coordinate{
			Latitude:   40.7128,
			CapturedAt: time.Now().Add(-5 * time.Minute),
		}, nil
	})

	sampler := NewSampler(provider, SamplerConfig{Freshness: 30 * time.Second})

	_, err := sampler.Sample(context.Background())
	assert.ErrorIs(t, err, geo.ErrStaleFix)
}

func TestSamplerTimeout(t *testing.T) {
	provider := fixProviderFunc(func(ctx context.Context) (geo.Coordinate, error) {
		<-ctx.Done()
		return geo.Coordinate{}, ctx.Err()
	})

	sampler := NewSampler(provider, SamplerConfig{Timeout: 20 * time.Millisecond})

	_, err := sampler.Sample(context.Background())
	assert.ErrorIs(t, err, geo.ErrPositionTimeout)
}

func TestSamplerPermissionDenied(t *testing.T) {
	provider := fixProviderFunc(func(ctx context.Context) (geo.Coordinate, error) {
		return geo.Coordinate{}, geo.ErrPermissionDenied
	})

	sampler := NewSampler(provider, DefaultSamplerConfig())

	_, err := sampler.Sample(context.Background())
	assert.ErrorIs(t, err, geo.ErrPermissionDenied)
}

func TestSamplerUnknownFailureMapsToUnavailable(t *testing.T) {
	provider := fixProviderFunc(func(ctx context.Context) (geo.Coordinate, error) {
		return geo.Coordinate{}, errors.New("gps chipset fault")
	})

	sampler := NewSampler(provider, DefaultSamplerConfig())

	_, err := sampler.Sample(context.Background())
	assert.ErrorIs(t, err, geo.ErrPositionUnavailable)
}

func TestSamplerCallerCancellation(t *testing.T) {
	provider := fixProviderFunc(func(ctx context.Context) (geo.Coordinate, error) {
		<-ctx.Done()
		return geo.Coordinate{}, ctx.Err()
	})

	sampler := NewSampler(provider, DefaultSamplerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sampler.Sample(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, geo.ErrPositionTimeout))
}
