// internal/service/detect/session.go

package detect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"sitefix/internal/domain/business"
	"sitefix/internal/domain/geo"
	"sitefix/internal/metrics"
	"sitefix/internal/service/position"
)

// Directory queries an external place-directory service for businesses near a
// coordinate
type Directory interface {
	Search(ctx context.Context, coord geo.Coordinate, radiusMeters float64, typeFilter geo.BusinessType) ([]geo.BusinessCandidate, error)
}

// AffinityStore persists and recalls wireless-signature-to-business priors
type AffinityStore interface {
	// Match returns businesses previously confirmed under signatures
	// overlapping the given network identifiers
	Match(ctx context.Context, tenantID string, networkIDs []string) (Affinity, error)

	// Record remembers that a business was confirmed while the given
	// networks were visible
	Record(ctx context.Context, tenantID string, networkIDs []string, businessID string, businessType geo.BusinessType) error
}

// DetectionStore persists resolved contexts for audit
type DetectionStore interface {
	SaveDetection(ctx context.Context, tenantID string, lc *geo.LocationContext) error
}

// EventBus publishes detection lifecycle events. *nats.Conn satisfies it.
type EventBus interface {
	Publish(subject string, data []byte) error
}

// SessionConfig contains configuration for a resolution session
type SessionConfig struct {
	TenantID                string
	SearchRadiusMeters      float64
	TypeFilter              geo.BusinessType
	CacheTTL                time.Duration
	MovementThresholdMeters float64
	EventsSubject           string
}

// DefaultSessionConfig returns the default session configuration
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SearchRadiusMeters:      250.0,
		CacheTTL:                2 * time.Minute,
		MovementThresholdMeters: 75.0,
		EventsSubject:           "location",
	}
}

// cachedResult is the session's single-entry short-lived result cache
type cachedResult struct {
	lc       *geo.LocationContext
	fix      geo.Coordinate
	storedAt time.Time
}

// Session is the orchestrating façade over the detection engine: it composes
// sampling, lookup, ranking, scoring, retry and fallback into a single
// detect-confirm-cache lifecycle. A session serves one active report flow;
// the in-flight guard and cache are not meant for multi-caller sharing.
type Session struct {
	sampler    *position.Sampler
	wifi       *position.Collector
	directory  Directory
	affinity   AffinityStore
	detections DetectionStore
	events     EventBus

	ranker   *Ranker
	scorer   *Scorer
	retry    *RetryCoordinator
	fallback *FallbackManager

	config SessionConfig

	mu       sync.Mutex
	inFlight bool
	cached   *cachedResult
}

// NewSession creates a new location resolution session. affinity, detections
// and events may be nil; the corresponding behavior is skipped.
func NewSession(
	sampler *position.Sampler,
	wifi *position.Collector,
	dir Directory,
	affinity AffinityStore,
	detections DetectionStore,
	events EventBus,
	retryConfig RetryConfig,
	config SessionConfig,
) *Session {
	defaults := DefaultSessionConfig()
	if config.SearchRadiusMeters <= 0 {
		config.SearchRadiusMeters = defaults.SearchRadiusMeters
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.MovementThresholdMeters <= 0 {
		config.MovementThresholdMeters = defaults.MovementThresholdMeters
	}
	if config.EventsSubject == "" {
		config.EventsSubject = defaults.EventsSubject
	}

	return &Session{
		sampler:    sampler,
		wifi:       wifi,
		directory:  dir,
		affinity:   affinity,
		detections: detections,
		events:     events,
		ranker:     NewRanker(DefaultRankerConfig()),
		scorer:     NewScorer(DefaultRankerConfig().TieEpsilonMeters),
		retry:      NewRetryCoordinator(retryConfig),
		fallback:   NewFallbackManager(),
		config:     config,
	}
}

// Detect resolves which business location the device is at. At most one
// detection runs at a time; a second call while one is in flight is rejected
// with geo.ErrDetectionInFlight so rapid repeated taps never duplicate
// positioning or network calls.
func (s *Session) Detect(ctx context.Context) (*geo.LocationContext, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, geo.ErrDetectionInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	started := time.Now()

	var (
		result   *geo.LocationContext
		cacheHit bool
	)
	err := s.retry.Execute(ctx, func(ctx context.Context) error {
		lc, cached, err := s.attempt(ctx)
		if err != nil {
			return err
		}
		result = lc
		cacheHit = cached
		return nil
	})

	if err != nil {
		metrics.DetectionFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	// A cache hit was already persisted, published and counted when it was
	// first resolved
	if cacheHit {
		return result, nil
	}

	metrics.DetectionsTotal.WithLabelValues(string(result.Method)).Inc()
	metrics.DetectionConfidence.Observe(result.Confidence)
	metrics.DetectionDuration.Observe(time.Since(started).Seconds())

	s.persist(ctx, result)
	s.publish("detected", result)

	return result, nil
}

// attempt runs one full detection pass: concurrent position + wifi sampling,
// cache check, directory lookup, ranking and scoring. The second return
// reports whether the result was served from the cache.
func (s *Session) attempt(ctx context.Context) (*geo.LocationContext, bool, error) {
	// Position and wireless signature are independent signals with no
	// ordering dependency between them
	var (
		wg     sync.WaitGroup
		fix    geo.Coordinate
		fixErr error
		sig    *geo.WirelessSignature
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fix, fixErr = s.sampler.Sample(ctx)
	}()
	go func() {
		defer wg.Done()
		sig = s.wifi.Collect(ctx)
	}()
	wg.Wait()

	if fixErr != nil {
		return nil, false, fixErr
	}

	if lc := s.cachedFor(fix); lc != nil {
		return lc, true, nil
	}

	// The directory lookup is gated on the coordinate
	raw, err := s.directory.Search(ctx, fix, s.config.SearchRadiusMeters, s.config.TypeFilter)
	if err != nil {
		return nil, false, err
	}

	var affinity Affinity
	if sig != nil && s.affinity != nil {
		affinity, err = s.affinity.Match(ctx, s.config.TenantID, sig.NetworkIDs)
		if err != nil {
			// Affinity is a boost, not a requirement
			log.Printf("affinity lookup failed, ranking on distance only: %v", err)
			affinity = nil
		}
	}

	ranked := s.ranker.Rank(raw, sig, affinity)
	if len(ranked) == 0 {
		return nil, false, geo.ErrNoResults
	}

	corroborated := s.ranker.Corroborates(ranked[0], sig, affinity)

	method := geo.MethodGPSOnly
	if sig != nil && corroborated {
		method = geo.MethodWiFiGPSHybrid
	}

	score := s.scorer.Score(ranked, sig, fix.AccuracyMeters, method, corroborated)

	suggested := ranked[0]
	lc := &geo.LocationContext{
		ID:                   uuid.New().String(),
		Coordinate:           fix,
		Signature:            sig,
		Candidates:           ranked,
		Suggested:            &suggested,
		Method:               method,
		Confidence:           score.Confidence,
		RequiresConfirmation: score.RequiresConfirmation,
		CreatedAt:            time.Now(),
	}

	s.storeCache(lc, fix)

	return lc, false, nil
}

// Confirm records the human's choice. It returns a new context rather than
// mutating the one being confirmed, preserving audit history for the caller.
func (s *Session) Confirm(ctx context.Context, lc *geo.LocationContext, chosen geo.BusinessCandidate) (*geo.LocationContext, error) {
	if lc == nil {
		return nil, fmt.Errorf("cannot confirm a nil context")
	}

	confirmed := lc.Clone()
	confirmed.ID = uuid.New().String()
	confirmed.Suggested = &chosen
	confirmed.UserConfirmed = true
	confirmed.CreatedAt = time.Now()

	// A confirmed choice under a visible signature is the prior that powers
	// future hybrid detections
	if lc.Signature != nil && s.affinity != nil {
		if err := s.affinity.Record(ctx, s.config.TenantID, lc.Signature.NetworkIDs, chosen.ID, chosen.Type); err != nil {
			log.Printf("failed to record signature affinity: %v", err)
		}
	}

	s.persist(ctx, confirmed)
	s.publish("confirmed", confirmed)

	return confirmed, nil
}

// BuildManualContext hands off to the manual-selection fallback over the full
// business list
func (s *Session) BuildManualContext(ctx context.Context, businesses []business.Business) (*geo.LocationContext, error) {
	lc, err := s.fallback.BuildManualContext(businesses)
	if err != nil {
		return nil, err
	}

	s.persist(ctx, lc)
	s.publish("fallback", lc)

	return lc, nil
}

// ClearCache drops the cached detection result
func (s *Session) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
}

// Reset clears the retry attempt counter for a fresh user-initiated attempt
func (s *Session) Reset() {
	s.retry.Reset()
}

// RetryState returns the retry coordinator's current state
func (s *Session) RetryState() RetryState {
	return s.retry.State()
}

// cachedFor returns the cached context if it is still valid for the given
// fix: inside the TTL and the device has not moved past the threshold
func (s *Session) cachedFor(fix geo.Coordinate) *geo.LocationContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		return nil
	}

	if time.Since(s.cached.storedAt) > s.config.CacheTTL {
		s.cached = nil
		return nil
	}

	if geo.Distance(s.cached.fix, fix) > s.config.MovementThresholdMeters {
		s.cached = nil
		return nil
	}

	return s.cached.lc.Clone()
}

func (s *Session) storeCache(lc *geo.LocationContext, fix geo.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = &cachedResult{
		lc:       lc.Clone(),
		fix:      fix,
		storedAt: time.Now(),
	}
}

// persist writes the context to the audit store, best-effort
func (s *Session) persist(ctx context.Context, lc *geo.LocationContext) {
	if s.detections == nil {
		return
	}

	if err := s.detections.SaveDetection(ctx, s.config.TenantID, lc); err != nil {
		log.Printf("failed to persist detection %s: %v", lc.ID, err)
	}
}

// detectionEvent is the payload published on the event bus
type detectionEvent struct {
	ContextID  string                 `json:"context_id"`
	TenantID   string                 `json:"tenant_id"`
	Method     geo.DetectionMethod    `json:"method"`
	Confidence float64                `json:"confidence"`
	Suggested  *geo.BusinessCandidate `json:"suggested,omitempty"`
	Candidates int                    `json:"candidates"`
	CreatedAt  time.Time              `json:"created_at"`
}

// publish emits a detection lifecycle event, best-effort
func (s *Session) publish(kind string, lc *geo.LocationContext) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(detectionEvent{
		ContextID:  lc.ID,
		TenantID:   s.config.TenantID,
		Method:     lc.Method,
		Confidence: lc.Confidence,
		Suggested:  lc.Suggested,
		Candidates: len(lc.Candidates),
		CreatedAt:  lc.CreatedAt,
	})
	if err != nil {
		log.Printf("failed to marshal detection event: %v", err)
		return
	}

	subject := fmt.Sprintf("%s.%s", s.config.EventsSubject, kind)
	if err := s.events.Publish(subject, data); err != nil {
		log.Printf("failed to publish %s event: %v", subject, err)
	}
}

// failureReason maps a terminal detection error to a metrics label
func failureReason(err error) string {
	switch {
	case errors.Is(err, geo.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, geo.ErrStaleFix):
		return "stale_fix"
	case errors.Is(err, geo.ErrPositionTimeout):
		return "position_timeout"
	case errors.Is(err, geo.ErrPositionUnavailable):
		return "position_unavailable"
	case errors.Is(err, geo.ErrLookupRateLimited):
		return "rate_limited"
	case errors.Is(err, geo.ErrLookupNetwork):
		return "network"
	case errors.Is(err, geo.ErrNoResults):
		return "empty"
	case errors.Is(err, geo.ErrExhausted):
		return "exhausted"
	default:
		return "other"
	}
}
