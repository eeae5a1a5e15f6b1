package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"quizmaster-service/internal/config"
	"quizmaster-service/internal/domain"
)

// SessionTable abstracts how active sessions are stored (in-memory, Redis-
// backed, etc). Implementations must be safe for concurrent use; the engine
// serializes mutations per session through the session's own mutex.
type SessionTable interface {
	Put(userID string, session *Session)
	Get(userID string) (*Session, bool)
	Delete(userID string)
}

// Dispatch is one question handed to the delivery channel, with the correct
// position within the presented (possibly shuffled) option list.
type Dispatch struct {
	Prompt     string
	Options    []string
	CorrectPos int
	Index      int // 0-based position within the plan
	Total      int
}

// QuestionSink delivers a question to the external channel and returns an
// opaque handle used to correlate the later answer event.
type QuestionSink interface {
	Dispatch(ctx context.Context, userID string, d Dispatch) (string, error)
}

// ResultSink receives finalized results for reporting and persistence. The
// engine's responsibility ends once this call is made.
type ResultSink interface {
	SaveResult(ctx context.Context, userID, testName string, result domain.QuizResult) error
}

// Engine drives quiz sessions: planning, per-question dispatch, answer
// scoring, and finalization.
type Engine struct {
	sessions SessionTable
	sink     QuestionSink
	results  ResultSink
	cfg      config.Quiz
	log      *zap.SugaredLogger
}

func NewEngine(sessions SessionTable, sink QuestionSink, results ResultSink, cfg config.Quiz, log *zap.SugaredLogger) *Engine {
	return &Engine{
		sessions: sessions,
		sink:     sink,
		results:  results,
		cfg:      cfg,
		log:      log,
	}
}

// Begin creates a Planning session for the user over a canonical question
// set, replacing any session the user already had.
func (e *Engine) Begin(_ context.Context, userID, testName string, questions []domain.Question) *Session {
	session := NewSession(userID, testName, questions)
	e.sessions.Put(userID, session)
	return session
}

// ChooseRange records the user's question range, given as "start-end" with
// 1-based inclusive bounds. Validation failures leave the session in
// Planning so the caller can re-prompt.
func (e *Engine) ChooseRange(_ context.Context, userID, rangeSpec string) error {
	session, ok := e.sessions.Get(userID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != Planning {
		return domain.ErrSessionState
	}

	start, end, err := parseRange(rangeSpec)
	if err != nil {
		return err
	}
	if start < 1 || end > len(session.source) || start > end {
		return domain.ErrRangeBounds
	}
	session.selected = session.source[start-1 : end]
	session.ordered = nil
	return nil
}

// ChooseQuestionOrder records whether question order is shuffled. The
// permutation is applied once here, to a copy, and baked into the plan.
func (e *Engine) ChooseQuestionOrder(_ context.Context, userID string, shuffle bool) error {
	session, ok := e.sessions.Get(userID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != Planning || session.selected == nil {
		return domain.ErrSessionState
	}

	ordered := make([]domain.Question, len(session.selected))
	copy(ordered, session.selected)
	if shuffle {
		session.rnd.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}
	session.ordered = ordered
	session.plan = &domain.QuizPlan{Questions: ordered, ShuffleQuestions: shuffle}
	return nil
}

// ChooseAnswerOrder is the final planning step: it fixes the answer-shuffle
// policy, activates the session, and dispatches the first question.
func (e *Engine) ChooseAnswerOrder(ctx context.Context, userID string, shuffle bool) error {
	session, ok := e.sessions.Get(userID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != Planning || session.plan == nil {
		return domain.ErrSessionState
	}

	session.plan.ShuffleAnswers = shuffle
	session.state = Active
	session.currentIndex = 0
	session.correctCount = 0
	session.startedAt = session.now()
	return e.dispatchLocked(ctx, session)
}

// Answer consumes one answer event from the delivery channel. Events for
// unknown sessions or stale handles are discarded, not errors: the channel
// may deliver duplicates or answers for sessions already finished.
func (e *Engine) Answer(ctx context.Context, userID, handle string, selected int) (*domain.QuizResult, error) {
	session, ok := e.sessions.Get(userID)
	if !ok {
		e.log.Debugw("discarding answer for unknown session", "user", userID, "handle", handle)
		return nil, nil
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != Active || handle != session.currentHandle {
		e.log.Debugw("discarding stale answer event", "user", userID, "handle", handle)
		return nil, nil
	}

	if selected == session.presentedCorrect {
		session.correctCount++
	}
	session.currentIndex++
	session.lastActivity = session.now()
	session.currentHandle = ""

	if session.currentIndex == len(session.plan.Questions) {
		session.state = Completed
		result := domain.Score(session.correctCount, session.currentIndex, e.cfg.PointsScale)
		e.report(ctx, session, result)
		e.sessions.Delete(userID)
		return &result, nil
	}
	if err := e.dispatchLocked(ctx, session); err != nil {
		result := domain.Score(session.correctCount, session.currentIndex, e.cfg.PointsScale)
		return &result, err
	}
	return nil, nil
}

// Cancel stops an active session. The partial result covers only the
// questions actually presented.
func (e *Engine) Cancel(ctx context.Context, userID string) (*domain.QuizResult, error) {
	session, ok := e.sessions.Get(userID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state == Planning {
		e.sessions.Delete(userID)
		return nil, nil
	}
	session.state = Cancelled
	result := domain.Score(session.correctCount, session.currentIndex, e.cfg.PointsScale)
	e.report(ctx, session, result)
	e.sessions.Delete(userID)
	return &result, nil
}

// dispatchLocked sends the question at currentIndex. Called with the session
// mutex held. On delivery failure it retries once, then cancels the session
// with whatever partial result exists.
func (e *Engine) dispatchLocked(ctx context.Context, session *Session) error {
	question := session.plan.Questions[session.currentIndex]
	options, correctPos := session.presentOptions(question)
	for i, opt := range options {
		options[i] = truncateOption(opt, e.cfg.DeliveryOptionLen)
	}

	d := Dispatch{
		Prompt:     question.Prompt,
		Options:    options,
		CorrectPos: correctPos,
		Index:      session.currentIndex,
		Total:      len(session.plan.Questions),
	}

	handle, err := e.sink.Dispatch(ctx, session.userID, d)
	if err != nil {
		e.log.Warnw("dispatch failed, retrying once", "user", session.userID, "error", err)
		handle, err = e.sink.Dispatch(ctx, session.userID, d)
	}
	if err != nil {
		session.state = Cancelled
		result := domain.Score(session.correctCount, session.currentIndex, e.cfg.PointsScale)
		e.report(ctx, session, result)
		e.sessions.Delete(session.userID)
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	session.currentHandle = handle
	session.presentedCorrect = correctPos
	session.lastActivity = session.now()
	return nil
}

// presentOptions builds the option list shown for one dispatch. With answer
// shuffling the wrong options are permuted and the correct one reinserted at
// a uniformly random position; without it, canonical order is kept and the
// correct position is 0. The presented list is always a permutation of the
// canonical options.
func (s *Session) presentOptions(q domain.Question) ([]string, int) {
	texts := q.OptionTexts()
	correctPos := 0
	if s.plan.ShuffleAnswers {
		correct := texts[0]
		rest := append([]string(nil), texts[1:]...)
		s.rnd.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
		correctPos = s.rnd.Intn(len(texts))
		texts = append(rest[:correctPos:correctPos], append([]string{correct}, rest[correctPos:]...)...)
	}
	return texts, correctPos
}

func (e *Engine) report(ctx context.Context, session *Session, result domain.QuizResult) {
	if err := e.results.SaveResult(ctx, session.userID, session.testName, result); err != nil {
		e.log.Errorw("failed to save quiz result", "user", session.userID, "test", session.testName, "error", err)
	}
}

// truncateOption clips text to the delivery channel's per-option rune limit,
// leaving room for the ellipsis marker.
func truncateOption(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

func parseRange(spec string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(spec), "-", 2)
	if len(parts) != 2 {
		return 0, 0, domain.ErrRangeSyntax
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, domain.ErrRangeSyntax
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, domain.ErrRangeSyntax
	}
	return start, end, nil
}
