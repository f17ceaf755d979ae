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

// signatureSourceFunc adapts a function to the SignatureSource interface
type signatureSourceFunc func(ctx context.Context) (*geo.WirelessSignature, error)

func (f signatureSourceFunc) Scan(ctx context.Context) (*geo.WirelessSignature, error) {
	return f(ctx)
}

func TestCollectorReturnsSignature(t *testing.T) {
	source := signatureSourceFunc(func(ctx context.Context) (*geo.WirelessSignature, error) {
		return &geo.WirelessSignature{
			NetworkIDs: []string{"aa:bb", "cc:dd"},
			CapturedAt: time.Now(),
		}, nil
	})

	collector := NewCollector(source, DefaultCollectBudget)

	sig := collector.Collect(context.Background())
	require.NotNil(t, sig)
	assert.Len(t, sig.NetworkIDs, 2)
}

func TestCollectorNilOnError(t *testing.T) {
	source := signatureSourceFunc(func(ctx context.Context) (*geo.WirelessSignature, error) {
		return nil, errors.New("scanning restricted")
	})

	collector := NewCollector(source, DefaultCollectBudget)

	assert.Nil(t, collector.Collect(context.Background()))
}

func TestCollectorNilOnEmptyScan(t *testing.T) {
	source := signatureSourceFunc(func(ctx context.Context) (*geo.WirelessSignature, error) {
		return &geo.WirelessSignature{}, nil
	})

	collector := NewCollector(source, DefaultCollectBudget)

	assert.Nil(t, collector.Collect(context.Background()))
}

func TestCollectorBudgetOverrun(t *testing.T) {
	source := signatureSourceFunc(func(ctx context.Context) (*geo.WirelessSignature, error) {
		select {
		case <-time.After(time.Second):
			return &geo.WirelessSignature{NetworkIDs: []string{"aa:bb"}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	collector := NewCollector(source, 10*time.Millisecond)

	start := time.Now()
	sig := collector.Collect(context.Background())

	assert.Nil(t, sig)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCollectorNilSource(t *testing.T) {
	collector := NewCollector(nil, DefaultCollectBudget)

	assert.Nil(t, collector.Collect(context.Background()))
}
