package ingest

import (
	"reflect"
	"testing"
)

func TestParseMarkerPrefixed(t *testing.T) {
	lines := []string{"?Capital of France", "+Paris", "-London", "-Berlin"}
	questions := parseMarkerPrefixed(lines)

	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	q := questions[0]
	if q.Prompt != "Capital of France" {
		t.Fatalf("unexpected prompt %q", q.Prompt)
	}
	want := []string{"Paris", "London", "Berlin"}
	if !reflect.DeepEqual(q.OptionTexts(), want) {
		t.Fatalf("unexpected options %v, want %v", q.OptionTexts(), want)
	}
	if !q.Options[0].Correct {
		t.Fatalf("expected canonical correct option at position 0")
	}
}

func TestParseMarkerPrefixedMultipleQuestions(t *testing.T) {
	lines := []string{
		"?First",
		"+A",
		"-B",
		"?Second",
		"-X",
		"+Y",
	}
	questions := parseMarkerPrefixed(lines)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	// Correct option is front-inserted regardless of where the "+" appears.
	if questions[1].Options[0].Text != "Y" || !questions[1].Options[0].Correct {
		t.Fatalf("expected Y first and correct, got %+v", questions[1].Options)
	}
}

func TestParseMarkerPrefixedLastCorrectMarkerEndsUpFirst(t *testing.T) {
	// Two correct markers in one block: the later one is inserted ahead and
	// both stay tagged; repair demotes the shifted one and flags the document.
	lines := []string{"?Q", "+first", "-w", "+second"}
	questions := parseMarkerPrefixed(lines)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	opts := questions[0].Options
	if opts[0].Text != "second" || !opts[0].Correct {
		t.Fatalf("expected later correct marker first, got %+v", opts)
	}
	if !opts[1].Correct || opts[1].Text != "first" {
		t.Fatalf("expected earlier correct marker shifted right with tag intact, got %+v", opts)
	}
}

func TestParseLegacySeparator(t *testing.T) {
	lines := []string{"Q1", "#Paris", "London", "Berlin", "Madrid", "Rome", "++++"}
	questions := parseLegacySeparator(lines)

	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	q := questions[0]
	if q.Prompt != "Q1" {
		t.Fatalf("unexpected prompt %q", q.Prompt)
	}
	want := []string{"Paris", "London", "Berlin", "Madrid", "Rome"}
	if !reflect.DeepEqual(q.OptionTexts(), want) {
		t.Fatalf("unexpected options %v", q.OptionTexts())
	}
}

func TestParseLegacySeparatorMultipleBlocks(t *testing.T) {
	lines := []string{
		"First question",
		"====",
		"#right",
		"wrong one",
		"++++",
		"Second question",
		"#correct",
		"incorrect",
		"++++",
	}
	questions := parseLegacySeparator(lines)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Options[0].Text != "right" {
		t.Fatalf("expected #-marked option first, got %+v", questions[0].Options)
	}
	if questions[1].Prompt != "Second question" {
		t.Fatalf("unexpected second prompt %q", questions[1].Prompt)
	}
}

func TestParseLegacySeparatorClosesFinalPending(t *testing.T) {
	lines := []string{"Q", "#yes", "no"}
	questions := parseLegacySeparator(lines)
	if len(questions) != 1 {
		t.Fatalf("expected trailing question to be emitted, got %d", len(questions))
	}
}

func TestParsersAreIdempotent(t *testing.T) {
	lines := []string{"?Q", "+a", "-b", "-c"}
	first := parseMarkerPrefixed(lines)
	second := parseMarkerPrefixed(lines)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("marker parser not deterministic: %v vs %v", first, second)
	}

	legacy := []string{"Q", "#a", "b", "++++"}
	lfirst := parseLegacySeparator(legacy)
	lsecond := parseLegacySeparator(legacy)
	if !reflect.DeepEqual(lfirst, lsecond) {
		t.Fatalf("legacy parser not deterministic: %v vs %v", lfirst, lsecond)
	}
}
