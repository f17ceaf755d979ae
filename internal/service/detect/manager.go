// internal/service/detect/manager.go

package detect

import (
	"sync"

	"sitefix/internal/service/position"
)

// ManagedSession pairs a session with the device feed backing its sampler and
// collector, so handlers can push the latest device report before detecting
type ManagedSession struct {
	Session *Session
	Feed    *position.DeviceFeed
}

// SessionFactory builds a session for a device key
type SessionFactory func(deviceID string) *ManagedSession

// Manager hands out one session per reporting device. Sessions carry retry
// and cache state across requests, so the same device must keep getting the
// same instance.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*ManagedSession
	factory  SessionFactory
}

// NewManager creates a new session manager
func NewManager(factory SessionFactory) *Manager {
	return &Manager{
		sessions: make(map[string]*ManagedSession),
		factory:  factory,
	}
}

// Acquire returns the session for a device, creating it on first use
func (m *Manager) Acquire(deviceID string) *ManagedSession {
	m.mu.RLock()
	entry, ok := m.sessions[deviceID]
	m.mu.RUnlock()

	if ok {
		return entry
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.sessions[deviceID]; ok {
		return entry
	}

	entry = m.factory(deviceID)
	m.sessions[deviceID] = entry
	return entry
}

// Remove drops a device's session
func (m *Manager) Remove(deviceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, deviceID)
}
