package app

import (
	"math/rand"
	"sync"
	"time"

	"quizmaster-service/internal/domain"
)

// State is the lifecycle phase of a quiz session.
type State int

const (
	// Planning collects the question range and ordering choices.
	Planning State = iota
	// Active has a plan and exactly one question in flight at a time.
	Active
	// Completed means the plan was exhausted.
	Completed
	// Cancelled means the user stopped early or dispatch failed.
	Cancelled
)

// Session is the per-user quiz state. It is mutated only under its own mutex,
// so one slow session never stalls another. The canonical question set it was
// built from is shared and read-only; shuffled presentation copies are private
// to the session.
type Session struct {
	mu sync.Mutex

	userID   string
	testName string
	state    State

	source   []domain.Question // full canonical set the user picked from
	selected []domain.Question // chosen range, nil until ChooseRange
	ordered  []domain.Question // range after the question-order choice, nil until then
	plan     *domain.QuizPlan

	currentIndex     int
	correctCount     int
	presentedCorrect int    // correct position within the currently displayed options
	currentHandle    string // correlation token of the in-flight dispatch

	startedAt    time.Time
	lastActivity time.Time

	now func() time.Time
	rnd *rand.Rand
}

// NewSession creates a Planning session over a canonical question set.
func NewSession(userID, testName string, questions []domain.Question) *Session {
	return NewSessionWithClock(userID, testName, questions, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithClock is for deterministic timestamps and shuffles in tests.
func NewSessionWithClock(userID, testName string, questions []domain.Question, now func() time.Time, rnd *rand.Rand) *Session {
	return &Session{
		userID:       userID,
		testName:     testName,
		state:        Planning,
		source:       questions,
		startedAt:    now(),
		lastActivity: now(),
		now:          now,
		rnd:          rnd,
	}
}

// UserID returns the owning user's identity.
func (s *Session) UserID() string { return s.userID }

// TestName returns the identifier of the test being taken.
func (s *Session) TestName() string { return s.testName }

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns how many questions were presented and answered correctly.
func (s *Session) Progress() (answered, correct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex, s.correctCount
}
