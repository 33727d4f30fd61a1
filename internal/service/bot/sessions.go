package bot

import (
	"sync"
)

// SessionManager tracks which senders have already been greeted.
type SessionManager struct {
	seen map[string]bool
	mu   sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{seen: make(map[string]bool)}
}

// Known reports whether the sender has interacted before.
func (sm *SessionManager) Known(senderID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.seen[senderID]
}

// Mark records the sender as greeted.
func (sm *SessionManager) Mark(senderID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.seen[senderID] = true
}

// Clear forgets a sender, forcing a fresh greeting next time.
func (sm *SessionManager) Clear(senderID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.seen, senderID)
}
