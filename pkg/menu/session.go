package menu

import "sync"

// Session is the per-user context that lives only as long as the process.
type Session struct {
	Language string
	State    State
}

type SessionStore interface {
	Load(userID string) (Session, bool)
	Save(userID string, s Session)
}

type memorySessions struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessions() SessionStore {
	return &memorySessions{sessions: make(map[string]Session)}
}

func (m *memorySessions) Load(userID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

func (m *memorySessions) Save(userID string, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}
