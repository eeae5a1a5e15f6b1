package ingest

import (
	"reflect"
	"strings"
	"testing"

	"quizmaster-service/internal/domain"
)

func TestRepairClipsOptionCount(t *testing.T) {
	q := domain.NewQuestion("Q", "Paris", "London", "Berlin", "Madrid", "Rome")
	repaired, hadErrors := repairIntegrity([]domain.Question{q}, 4, 150)

	if !hadErrors {
		t.Fatalf("expected error flag for clipped options")
	}
	got := repaired[0].OptionTexts()
	want := []string{"Paris", "London", "Berlin", "Madrid"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected options %v", got)
	}
	if !repaired[0].Options[0].Correct {
		t.Fatalf("clipping must keep the correct option at position 0")
	}
}

func TestRepairDropsDuplicates(t *testing.T) {
	q := domain.NewQuestion("Q", "Paris", "London", "Paris", "Berlin")
	repaired, hadErrors := repairIntegrity([]domain.Question{q}, 4, 150)

	if !hadErrors {
		t.Fatalf("expected error flag for duplicate options")
	}
	want := []string{"Paris", "London", "Berlin"}
	if !reflect.DeepEqual(repaired[0].OptionTexts(), want) {
		t.Fatalf("unexpected options %v", repaired[0].OptionTexts())
	}
}

func TestRepairTruncatesLongOptions(t *testing.T) {
	long := strings.Repeat("x", 200)
	q := domain.NewQuestion("Q", long, "short")
	repaired, hadErrors := repairIntegrity([]domain.Question{q}, 4, 150)

	if !hadErrors {
		t.Fatalf("expected error flag for truncated option")
	}
	got := repaired[0].Options[0].Text
	if got != strings.Repeat("x", 150)+"..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestRepairChecksAreIndependent(t *testing.T) {
	// Over-long list, duplicates, and an over-long text all in one question.
	long := strings.Repeat("y", 160)
	q := domain.NewQuestion("Q", long, "a", "a", "b", "c")
	repaired, hadErrors := repairIntegrity([]domain.Question{q}, 4, 150)

	if !hadErrors {
		t.Fatalf("expected error flag")
	}
	opts := repaired[0].OptionTexts()
	// Clip to 4 first (long, a, a, b), then dedupe (long, a, b), then truncate.
	want := []string{strings.Repeat("y", 150) + "...", "a", "b"}
	if !reflect.DeepEqual(opts, want) {
		t.Fatalf("unexpected options %v", opts)
	}
}

func TestRepairDemotesExtraCorrectTags(t *testing.T) {
	q := domain.Question{Prompt: "Q", Options: []domain.Option{
		{Text: "later", Correct: true},
		{Text: "earlier", Correct: true},
		{Text: "wrong"},
	}}
	repaired, hadErrors := repairIntegrity([]domain.Question{q}, 4, 150)

	if !hadErrors {
		t.Fatalf("multiple correct markers must flag the document")
	}
	opts := repaired[0].Options
	if !opts[0].Correct || opts[1].Correct {
		t.Fatalf("expected only position 0 tagged correct, got %+v", opts)
	}
}

func TestRepairNormalizesUntaggedQuestions(t *testing.T) {
	// Legacy blocks without a "#" line have no tagged option; the positional
	// convention makes the first one correct, without flagging.
	q := domain.Question{Prompt: "Q", Options: []domain.Option{
		{Text: "first"},
		{Text: "second"},
	}}
	repaired, hadErrors := repairIntegrity([]domain.Question{q}, 4, 150)

	if hadErrors {
		t.Fatalf("normalization alone must not flag the document")
	}
	if !repaired[0].Options[0].Correct {
		t.Fatalf("expected first option tagged correct")
	}
}
