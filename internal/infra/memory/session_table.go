package memory

import (
	"sync"

	"quizmaster-service/internal/app"
)

// SessionTable is an in-memory implementation of app.SessionTable: a
// concurrent map keyed by user identity with explicit insertion and removal.
type SessionTable struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionTable() *SessionTable {
	return &SessionTable{
		sessions: make(map[string]*app.Session),
	}
}

func (t *SessionTable) Put(userID string, session *app.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[userID] = session
}

func (t *SessionTable) Get(userID string) (*app.Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	session, ok := t.sessions[userID]
	return session, ok
}

func (t *SessionTable) Delete(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, userID)
}
