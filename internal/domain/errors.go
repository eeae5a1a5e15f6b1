package domain

import "errors"

var (
	// ErrNoQuestions is the terminal ingestion failure: no strategy, including
	// the heuristic fallback, produced a usable question set.
	ErrNoQuestions = errors.New("no questions found in document")
	// ErrRangeSyntax is returned when a question range is not "start-end".
	ErrRangeSyntax = errors.New("range must look like 1-20")
	// ErrRangeBounds is returned when a range falls outside the question set.
	ErrRangeBounds = errors.New("range out of bounds")
	// ErrSessionNotFound is returned when a user has no active quiz session.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionState is returned when an operation does not match the
	// session's current state.
	ErrSessionState = errors.New("operation not allowed in current session state")
	// ErrTestNotFound indicates a saved test could not be loaded.
	ErrTestNotFound = errors.New("test not found")
	// ErrDispatchFailed wraps a delivery-sink failure that cancelled a session.
	ErrDispatchFailed = errors.New("question dispatch failed")
)
