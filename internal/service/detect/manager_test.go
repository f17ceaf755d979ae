package detect

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sitefix/internal/service/position"
)

func testFactory(built *int32) SessionFactory {
	return func(deviceID string) *ManagedSession {
		atomic.AddInt32(built, 1)

		feed := position.NewDeviceFeed()
		return &ManagedSession{
			Session: NewSession(
				position.NewSampler(feed, position.SamplerConfig{Timeout: 100 * time.Millisecond}),
				position.NewCollector(feed, 50*time.Millisecond),
				&fakeDirectory{},
				nil,
				nil,
				nil,
				RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond},
				SessionConfig{TenantID: "tenant-1"},
			),
			Feed: feed,
		}
	}
}

func TestManagerReusesSessionPerDevice(t *testing.T) {
	var built int32
	mgr := NewManager(testFactory(&built))

	first := mgr.Acquire("device-1")
	second := mgr.Acquire("device-1")
	other := mgr.Acquire("device-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, int32(2), atomic.LoadInt32(&built))
}

func TestManagerRemove(t *testing.T) {
	var built int32
	mgr := NewManager(testFactory(&built))

	first := mgr.Acquire("device-1")
	mgr.Remove("device-1")
	second := mgr.Acquire("device-1")

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&built))
}

func TestManagerConcurrentAcquire(t *testing.T) {
	var built int32
	mgr := NewManager(testFactory(&built))

	var wg sync.WaitGroup
	sessions := make([]*ManagedSession, 20)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = mgr.Acquire("device-1")
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
}
