// internal/service/position/feed.go

package position

import (
	"context"
	"sync"

	"sitefix/internal/domain/geo"
)

// DeviceFeed replays positioning signals submitted by a mobile device. The
// reporting client captures its own fix and wireless scan and posts them with
// the detection request; the feed makes those signals available to the sampler
// and collector through the same interfaces a live positioning source would
// implement.
type DeviceFeed struct {
	mu     sync.Mutex
	fix    *geo.Coordinate
	fixErr error
	sig    *geo.WirelessSignature
}

// NewDeviceFeed creates an empty device feed
func NewDeviceFeed() *DeviceFeed {
	return &DeviceFeed{}
}

// SetReport replaces the feed contents with the latest device report. fixErr
// carries a positioning failure reported by the device (e.g., the user denied
// location permission), in which case fix is ignored.
func (f *DeviceFeed) SetReport(fix *geo.Coordinate, sig *geo.WirelessSignature, fixErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fix = fix
	f.fixErr = fixErr
	f.sig = sig
}

// Fix implements FixProvider
func (f *DeviceFeed) Fix(ctx context.Context) (geo.Coordinate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fixErr != nil {
		return geo.Coordinate{}, f.fixErr
	}

	if f.fix == nil {
		return geo.Coordinate{}, geo.ErrPositionUnavailable
	}

	return *f.fix, nil
}

// Scan implements SignatureSource
func (f *DeviceFeed) Scan(ctx context.Context) (*geo.WirelessSignature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sig, nil
}
