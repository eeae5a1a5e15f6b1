package memory

import (
	"context"
	"sync"
	"time"

	"quizmaster-service/internal/domain"
)

// ResultEntry is one recorded quiz outcome.
type ResultEntry struct {
	UserID   string
	TestName string
	TakenAt  time.Time
	Result   domain.QuizResult
}

// ResultLog is an in-memory app.ResultSink keeping results in arrival order.
// It backs tests and the no-database deployment mode.
type ResultLog struct {
	mu      sync.RWMutex
	entries []ResultEntry
	clock   func() time.Time
}

func NewResultLog() *ResultLog {
	return &ResultLog{clock: time.Now}
}

func (l *ResultLog) SaveResult(_ context.Context, userID, testName string, result domain.QuizResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, ResultEntry{
		UserID:   userID,
		TestName: testName,
		TakenAt:  l.clock(),
		Result:   result,
	})
	return nil
}

// Entries returns a snapshot of recorded results.
func (l *ResultLog) Entries() []ResultEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ResultEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
