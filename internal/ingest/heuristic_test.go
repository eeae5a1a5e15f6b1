package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestHeuristicLetteredOptions(t *testing.T) {
	lines := []string{
		"What is the capital of France?",
		"A) Paris",
		"B) London",
		"C) Berlin",
	}
	questions, hadErrors := extractHeuristic(lines, 6, 4)

	if hadErrors {
		t.Fatalf("unexpected error flag")
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	want := []string{"Paris", "London", "Berlin"}
	if !reflect.DeepEqual(questions[0].OptionTexts(), want) {
		t.Fatalf("unexpected options %v", questions[0].OptionTexts())
	}
	// Without explicit markers the first scanned option is assumed correct.
	if !questions[0].Options[0].Correct {
		t.Fatalf("expected first option tagged correct")
	}
}

func TestHeuristicPlusMarkerWinsRegardlessOfOrder(t *testing.T) {
	lines := []string{
		"1. Which planet is closest to the sun?",
		"- Venus",
		"- Earth",
		"+ Mercury",
	}
	questions, _ := extractHeuristic(lines, 6, 4)

	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].Options[0].Text != "Mercury" || !questions[0].Options[0].Correct {
		t.Fatalf("expected +-marked option first and correct, got %+v", questions[0].Options)
	}
}

func TestHeuristicStopsAtFirstNonOptionLine(t *testing.T) {
	lines := []string{
		"Question 1: pick one",
		"A) yes",
		"B) no",
		"Some unrelated paragraph interrupts the option list here",
		"C) stray",
	}
	questions, _ := extractHeuristic(lines, 6, 4)

	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if len(questions[0].Options) != 2 {
		t.Fatalf("expected scan to stop after 2 options, got %v", questions[0].OptionTexts())
	}
}

func TestHeuristicShortFreeFormAnswer(t *testing.T) {
	lines := []string{
		"What color is the sky?",
		"Blue",
	}
	questions, _ := extractHeuristic(lines, 6, 4)

	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	opts := questions[0].Options
	if len(opts) != 1 || opts[0].Text != "Blue" || !opts[0].Correct {
		t.Fatalf("expected free-form correct answer, got %+v", opts)
	}
}

func TestHeuristicClipsAndFlags(t *testing.T) {
	lines := []string{
		"Pick a letter?",
		"A) a",
		"B) b",
		"C) c",
		"D) d",
		"E) e",
	}
	questions, hadErrors := extractHeuristic(lines, 6, 4)

	if !hadErrors {
		t.Fatalf("expected clip to flag")
	}
	if len(questions[0].Options) != 4 {
		t.Fatalf("expected 4 options after clip, got %d", len(questions[0].Options))
	}
}

func TestHeuristicIgnoresLongUnmarkedLines(t *testing.T) {
	lines := []string{
		"Is this a question?",
		strings.Repeat("long filler text ", 10),
	}
	questions, _ := extractHeuristic(lines, 6, 4)
	if len(questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
}
