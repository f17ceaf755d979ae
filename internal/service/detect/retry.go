// internal/service/detect/retry.go

package detect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sitefix/internal/domain/geo"
	"sitefix/internal/metrics"
)

// RetryState represents the current state of the retry coordinator
type RetryState string

const (
	StateIdle       RetryState = "idle"
	StateAttempting RetryState = "attempting"
	StateSucceeded  RetryState = "succeeded"
	StateFailed     RetryState = "failed"
	StateExhausted  RetryState = "exhausted"
)

// RetryConfig contains configuration for the retry coordinator
type RetryConfig struct {
	// MaxAttempts bounds consecutive failed attempts before an explicit
	// Reset is required
	MaxAttempts int

	// Backoff is the fixed delay between attempts. Detection latency is
	// already network-bound, so the delay stays short rather than
	// exponential.
	Backoff time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Backoff:     1 * time.Second,
	}
}

// RetryCoordinator governs retry attempts when detection fails. Only
// transient failure classes are retried; everything else short-circuits to
// Exhausted so the caller can hand off to manual fallback. The attempt
// counter bounds consecutive failures: it survives failed Execute calls
// until an explicit Reset, while a success restores the full budget.
type RetryCoordinator struct {
	config RetryConfig

	mu       sync.Mutex
	state    RetryState
	attempts int
}

// NewRetryCoordinator creates a new retry coordinator
func NewRetryCoordinator(config RetryConfig) *RetryCoordinator {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultRetryConfig().MaxAttempts
	}
	if config.Backoff <= 0 {
		config.Backoff = DefaultRetryConfig().Backoff
	}

	return &RetryCoordinator{
		config: config,
		state:  StateIdle,
	}
}

// Execute runs op until it succeeds, fails non-transiently, or the attempt
// budget is spent. The returned error always matches geo.ErrExhausted when no
// more attempts remain, wrapping the last underlying failure.
func (rc *RetryCoordinator) Execute(ctx context.Context, op func(context.Context) error) error {
	for {
		if !rc.beginAttempt() {
			return fmt.Errorf("%w: attempt budget spent", geo.ErrExhausted)
		}

		err := op(ctx)
		if err == nil {
			rc.succeed()
			return nil
		}

		// A caller abandoning the flow is not a detection failure
		if ctx.Err() != nil {
			rc.setState(StateFailed)
			return ctx.Err()
		}

		if !geo.IsTransient(err) {
			rc.setState(StateExhausted)
			return fmt.Errorf("%w: %w", geo.ErrExhausted, err)
		}

		if rc.spent() {
			rc.setState(StateExhausted)
			return fmt.Errorf("%w: %w", geo.ErrExhausted, err)
		}

		rc.setState(StateFailed)
		metrics.RetriesTotal.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rc.config.Backoff):
		}
	}
}

// beginAttempt consumes one attempt from the budget, reporting false when the
// budget is already spent
func (rc *RetryCoordinator) beginAttempt() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.attempts >= rc.config.MaxAttempts {
		rc.state = StateExhausted
		return false
	}

	rc.attempts++
	rc.state = StateAttempting
	return true
}

// succeed restores the attempt budget. The bound applies to consecutive
// failures within one report flow, not to the session's lifetime of
// successful detections.
func (rc *RetryCoordinator) succeed() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.attempts = 0
	rc.state = StateSucceeded
}

// spent reports whether the attempt budget has been consumed
func (rc *RetryCoordinator) spent() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.attempts >= rc.config.MaxAttempts
}

func (rc *RetryCoordinator) setState(state RetryState) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.state = state
}

// State returns the coordinator's current state
func (rc *RetryCoordinator) State() RetryState {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.state
}

// Attempts returns how many attempts have been consumed since the last Reset
func (rc *RetryCoordinator) Attempts() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.attempts
}

// Reset clears the attempt counter for a fresh user-initiated detection
func (rc *RetryCoordinator) Reset() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.attempts = 0
	rc.state = StateIdle
}
