package ingest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"quizmaster-service/internal/config"
	"quizmaster-service/internal/domain"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(config.Default().Quiz, time.Minute, zap.NewNop().Sugar())
}

func TestPipelineMarkerDocument(t *testing.T) {
	content := strings.Join([]string{"?Capital of France", "+Paris", "-London", "-Berlin"}, "\n")
	result, err := newTestPipeline().Parse(context.Background(), Document{Content: content})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.HadErrors {
		t.Fatalf("clean input must not flag errors")
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
	q := result.Questions[0]
	if q.Prompt != "Capital of France" {
		t.Fatalf("unexpected prompt %q", q.Prompt)
	}
	want := []string{"Paris", "London", "Berlin"}
	if !reflect.DeepEqual(q.OptionTexts(), want) {
		t.Fatalf("unexpected options %v", q.OptionTexts())
	}
}

func TestPipelineLegacyDocumentClipsOptions(t *testing.T) {
	content := strings.Join([]string{"Q1", "#Paris", "London", "Berlin", "Madrid", "Rome", "++++"}, "\n")
	result, err := newTestPipeline().Parse(context.Background(), Document{Content: content})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !result.HadErrors {
		t.Fatalf("expected error flag for clipped options")
	}
	want := []string{"Paris", "London", "Berlin", "Madrid"}
	if !reflect.DeepEqual(result.Questions[0].OptionTexts(), want) {
		t.Fatalf("unexpected options %v", result.Questions[0].OptionTexts())
	}
}

func TestPipelineFallsBackToHeuristic(t *testing.T) {
	// Marker lines select the structural strategy, but the only marked
	// question ends up with a single option, so the heuristic pass recovers
	// the lettered list instead.
	content := strings.Join([]string{
		"?Broken",
		"+only",
		"What is the capital of France?",
		"A) Paris",
		"B) London",
	}, "\n")
	result, err := newTestPipeline().Parse(context.Background(), Document{Content: content})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected fallback to recover 1 question, got %d", len(result.Questions))
	}
	if result.Questions[0].Options[0].Text != "Paris" {
		t.Fatalf("unexpected options %+v", result.Questions[0].Options)
	}
}

func TestPipelineEmptyDocument(t *testing.T) {
	result, err := newTestPipeline().Parse(context.Background(), Document{Content: "  \n\n  "})
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if !result.HadErrors {
		t.Fatalf("terminal failure must carry the error flag")
	}
	if len(result.Questions) != 0 {
		t.Fatalf("expected no questions")
	}
}

func TestPipelineUnparsableDocument(t *testing.T) {
	content := strings.Join([]string{
		"just some prose with no structure",
		"and another line of prose",
	}, "\n")
	_, err := newTestPipeline().Parse(context.Background(), Document{Content: content})
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestPipelineIsDeterministic(t *testing.T) {
	content := strings.Join([]string{"?Q", "+a", "-b"}, "\n")
	p := newTestPipeline()
	first, err := p.Parse(context.Background(), Document{Content: content})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := p.Parse(context.Background(), Document{Content: content})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ across runs: %v vs %v", first, second)
	}
}

func TestPipelineCacheIsBounded(t *testing.T) {
	cfg := config.Default().Quiz
	cfg.CacheSize = 1
	p := NewPipeline(cfg, time.Minute, zap.NewNop().Sugar())

	docs := []string{
		"?First\n+a\n-b",
		"?Second\n+c\n-d",
		"?Third\n+e\n-f",
	}
	for _, content := range docs {
		if _, err := p.Parse(context.Background(), Document{Content: content}); err != nil {
			t.Fatalf("parse: %v", err)
		}
	}

	p.mu.Lock()
	size := len(p.cache)
	p.mu.Unlock()
	if size > 1 {
		t.Fatalf("cache exceeded its bound: %d entries", size)
	}
}

func TestPipelineCacheHit(t *testing.T) {
	p := newTestPipeline()
	content := "?Q\n+a\n-b"
	if _, err := p.Parse(context.Background(), Document{Content: content}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := p.lookup(digest(Document{Content: content})); !ok {
		t.Fatalf("expected parse result to be cached")
	}
}
