package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/app"
)

// SessionTable is a Redis-aware implementation of app.SessionTable.
// Notes:
//   - Sessions themselves stay in a local map; their state machine and
//     mutexes are in-process only.
//   - Redis marks session liveness so operators (and a future multi-instance
//     router) can see which users are mid-quiz.
type SessionTable struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionTable(client *redis.Client, ttl time.Duration) *SessionTable {
	return &SessionTable{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (t *SessionTable) Put(userID string, session *app.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[userID] = session
	// best-effort liveness marker
	_ = t.client.Set(context.Background(), t.key(userID), session.TestName(), t.ttl).Err()
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
	_ = t.client.Del(context.Background(), t.key(userID)).Err()
}

func (t *SessionTable) key(userID string) string {
	return "quiz:session:" + userID
}
