package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quizmaster-service/internal/config"
	"quizmaster-service/internal/domain"
)

// Format is the document-source hint. The pipeline does not know how the
// document was fetched or decoded; rich documents arrive with their paragraph
// text already extracted, one paragraph per line.
type Format int

const (
	// FormatPlain is plain text content.
	FormatPlain Format = iota
	// FormatDocument is pre-extracted rich-document paragraph text.
	FormatDocument
)

// Document is the raw input to the pipeline.
type Document struct {
	Content string
	Format  Format
}

// Pipeline turns raw document text into canonical questions. Parse results
// are kept in an explicit bounded TTL cache keyed by a content digest, and
// concurrent parses of identical content are collapsed through singleflight.
type Pipeline struct {
	cfg   config.Quiz
	log   *zap.SugaredLogger
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	result    domain.ParseResult
	expiresAt time.Time
	addedAt   time.Time
}

func NewPipeline(cfg config.Quiz, ttl time.Duration, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		log:   log,
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string]cacheEntry),
	}
}

// Parse runs detection, the selected structural parser, integrity repair and,
// when the structural output is insufficient, the heuristic fallback. Parsing
// is deterministic: the same content always yields the same result.
func (p *Pipeline) Parse(ctx context.Context, doc Document) (domain.ParseResult, error) {
	lines := splitLines(doc.Content)
	if len(lines) == 0 {
		return domain.ParseResult{HadErrors: true}, domain.ErrNoQuestions
	}

	key := digest(doc)
	if entry, ok := p.lookup(key); ok {
		return entry, nil
	}

	result, err, _ := p.sf.Do(key, func() (interface{}, error) {
		if entry, ok := p.lookup(key); ok {
			return entry, nil
		}
		parsed, err := p.parse(lines)
		if err != nil {
			return parsed, err
		}
		p.store(key, parsed)
		return parsed, nil
	})
	parsed := result.(domain.ParseResult)
	if err != nil {
		return parsed, err
	}
	return parsed, nil
}

func (p *Pipeline) parse(lines []string) (domain.ParseResult, error) {
	strategy := DetectFormat(lines)

	var (
		questions []domain.Question
		hadErrors bool
	)
	switch strategy {
	case StrategyMarker:
		questions = parseMarkerPrefixed(lines)
	case StrategyLegacy:
		questions = parseLegacySeparator(lines)
	case StrategyHeuristic:
		questions, hadErrors = extractHeuristic(lines, p.cfg.HeuristicWindow, p.cfg.MaxOptions)
	}

	questions, repaired := repairIntegrity(questions, p.cfg.MaxOptions, p.cfg.MaxOptionLength)
	hadErrors = hadErrors || repaired

	if strategy != StrategyHeuristic && !p.viable(questions) {
		fallback, fbErrors := extractHeuristic(lines, p.cfg.HeuristicWindow, p.cfg.MaxOptions)
		if len(fallback) > 0 {
			fallback, repaired = repairIntegrity(fallback, p.cfg.MaxOptions, p.cfg.MaxOptionLength)
			questions = fallback
			hadErrors = hadErrors || fbErrors || repaired
			p.log.Infow("heuristic fallback recovered questions", "count", len(questions))
		}
	}

	// Questions too small to dispatch are dropped rather than handed to the
	// session engine, which the delivery channel would reject anyway.
	kept := questions[:0]
	for _, q := range questions {
		if len(q.Options) < p.cfg.MinOptions {
			hadErrors = true
			continue
		}
		kept = append(kept, q)
	}
	questions = kept

	if len(questions) == 0 {
		p.log.Warnw("document yielded no questions", "lines", len(lines))
		return domain.ParseResult{HadErrors: true}, domain.ErrNoQuestions
	}
	return domain.ParseResult{Questions: questions, HadErrors: hadErrors}, nil
}

// viable reports whether the structural parse produced a usable question set:
// at least one question, none below the minimum option count.
func (p *Pipeline) viable(questions []domain.Question) bool {
	if len(questions) == 0 {
		return false
	}
	for _, q := range questions {
		if len(q.Options) < p.cfg.MinOptions {
			return false
		}
	}
	return true
}

func (p *Pipeline) lookup(key string) (domain.ParseResult, bool) {
	now := p.clock()
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.cache[key]
	if !ok || (p.ttl > 0 && entry.expiresAt.Before(now)) {
		return domain.ParseResult{}, false
	}
	return entry.result, true
}

func (p *Pipeline) store(key string, result domain.ParseResult) {
	now := p.clock()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.cache) >= p.cfg.CacheSize {
		p.evictOldestLocked()
	}
	p.cache[key] = cacheEntry{
		result:    result,
		expiresAt: now.Add(p.ttl),
		addedAt:   now,
	}
}

func (p *Pipeline) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, entry := range p.cache {
		if oldestKey == "" || entry.addedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.addedAt
		}
	}
	if oldestKey != "" {
		delete(p.cache, oldestKey)
	}
}

func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func digest(doc Document) string {
	h := sha256.New()
	h.Write([]byte{byte(doc.Format)})
	h.Write([]byte(doc.Content))
	return hex.EncodeToString(h.Sum(nil))
}
