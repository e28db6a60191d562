package session

import "sync"

// Manager keeps sessions in memory, keyed by user id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// GetOrCreate returns the session for userID, creating it when absent. init
// runs only for a new session, before it becomes visible to other callers.
func (m *Manager) GetOrCreate(userID string, init func(*Session)) (*Session, bool) {
	if s, ok := m.Get(userID); ok {
		return s, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s, false
	}
	s := New(userID)
	if init != nil {
		init(s)
	}
	m.sessions[userID] = s
	return s, true
}

func (m *Manager) Delete(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
