package geo

import (
	"errors"
)

// Positioning failures
var (
	ErrPermissionDenied    = errors.New("position: permission denied")
	ErrPositionTimeout     = errors.New("position: no fix within timeout")
	ErrPositionUnavailable = errors.New("position: service unavailable")
	ErrStaleFix            = errors.New("position: fix older than freshness window")
)

// Directory lookup failures
var (
	ErrLookupNetwork     = errors.New("directory: network failure")
	ErrLookupRateLimited = errors.New("directory: rate limited")
	ErrNoResults         = errors.New("directory: no businesses found")
)

// Resolution failures
var (
	ErrExhausted         = errors.New("detect: attempts exhausted")
	ErrNoBusinesses      = errors.New("detect: no businesses available")
	ErrDetectionInFlight = errors.New("detect: detection already in flight")
)

// IsTransient reports whether a failure is worth retrying. Permission denials,
// stale fixes and genuinely empty lookup results never resolve by retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrPositionTimeout) ||
		errors.Is(err, ErrLookupNetwork) ||
		errors.Is(err, ErrLookupRateLimited)
}
