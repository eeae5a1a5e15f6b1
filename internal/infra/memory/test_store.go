package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// TestStore is an in-memory implementation of app.TestStore, used in tests
// and when no backing database is configured.
type TestStore struct {
	mu    sync.RWMutex
	tests map[string]map[string]domain.SavedTest
	clock func() time.Time
}

var _ app.TestStore = (*TestStore)(nil)

func NewTestStore() *TestStore {
	return &TestStore{
		tests: make(map[string]map[string]domain.SavedTest),
		clock: time.Now,
	}
}

func (s *TestStore) Put(_ context.Context, userID, name string, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	byName, ok := s.tests[userID]
	if !ok {
		byName = make(map[string]domain.SavedTest)
		s.tests[userID] = byName
	}
	created := now
	if existing, ok := byName[name]; ok {
		created = existing.CreatedAt
	}
	byName[name] = domain.SavedTest{
		Name:      name,
		Questions: questions,
		CreatedAt: created,
		UpdatedAt: now,
	}
	return nil
}

func (s *TestStore) Get(_ context.Context, userID, name string) (domain.SavedTest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if test, ok := s.tests[userID][name]; ok {
		return test, nil
	}
	return domain.SavedTest{}, domain.ErrTestNotFound
}

func (s *TestStore) List(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tests[userID]))
	for name := range s.tests[userID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *TestStore) Delete(_ context.Context, userID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.tests[userID]
	if !ok {
		return false, nil
	}
	if _, ok := byName[name]; !ok {
		return false, nil
	}
	delete(byName, name)
	if len(byName) == 0 {
		delete(s.tests, userID)
	}
	return true, nil
}
