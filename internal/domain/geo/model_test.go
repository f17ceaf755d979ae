package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWirelessSignatureOverlaps(t *testing.T) {
	sig := &WirelessSignature{NetworkIDs: []string{"aa:bb", "cc:dd"}}

	assert.True(t, sig.Overlaps([]string{"cc:dd", "ee:ff"}))
	assert.False(t, sig.Overlaps([]string{"ee:ff"}))
	assert.False(t, sig.Overlaps(nil))

	var nilSig *WirelessSignature
	assert.False(t, nilSig.Overlaps([]string{"aa:bb"}))
}

func TestLocationContextClone(t *testing.T) {
	original := &LocationContext{
		ID: "ctx-1",
		Signature: &WirelessSignature{
			NetworkIDs: []string{"aa:bb"},
			CapturedAt: time.Now(),
		},
		Candidates: []BusinessCandidate{
			{ID: "b1", Name: "Corner Cafe", DistanceMeters: 5},
			{ID: "b2", Name: "Hardware Depot", DistanceMeters: 40},
		},
		Method:     MethodWiFiGPSHybrid,
		Confidence: 0.9,
	}
	original.Suggested = &original.Candidates[0]

	clone := original.Clone()
	require.NotNil(t, clone)

	// Mutating the clone must not touch the original
	clone.Candidates[0].Name = "changed"
	clone.Suggested.ID = "changed"
	clone.Signature.NetworkIDs[0] = "changed"
	clone.UserConfirmed = true

	assert.Equal(t, "Corner Cafe", original.Candidates[0].Name)
	assert.Equal(t, "b1", original.Suggested.ID)
	assert.Equal(t, "aa:bb", original.Signature.NetworkIDs[0])
	assert.False(t, original.UserConfirmed)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrPositionTimeout))
	assert.True(t, IsTransient(ErrLookupNetwork))
	assert.True(t, IsTransient(ErrLookupRateLimited))

	assert.False(t, IsTransient(ErrPermissionDenied))
	assert.False(t, IsTransient(ErrStaleFix))
	assert.False(t, IsTransient(ErrPositionUnavailable))
	assert.False(t, IsTransient(ErrNoResults))
	assert.False(t, IsTransient(ErrNoBusinesses))
	assert.False(t, IsTransient(nil))
}
