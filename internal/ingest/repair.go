package ingest

import "quizmaster-service/internal/domain"

// repairIntegrity post-processes raw questions into canonical form. The
// checks are independent and all of them may fire for the same question:
//
//   - more than one option tagged correct keeps the tag on position 0 only,
//   - option lists longer than maxOptions are clipped, keeping position 0,
//   - duplicate option texts are dropped preserving first occurrence,
//   - option texts longer than maxLen runes are truncated with an ellipsis.
//
// The returned flag reports whether any repair degraded the input. A question
// with no tagged correct option is normalized to treat its first option as
// correct, matching the positional convention; that alone is not an error.
func repairIntegrity(questions []domain.Question, maxOptions, maxLen int) ([]domain.Question, bool) {
	hadErrors := false
	repaired := make([]domain.Question, 0, len(questions))

	for _, q := range questions {
		opts := make([]domain.Option, len(q.Options))
		copy(opts, q.Options)

		correctSeen := 0
		for i := range opts {
			if opts[i].Correct {
				correctSeen++
				if i > 0 {
					opts[i].Correct = false
				}
			}
		}
		if correctSeen > 1 {
			hadErrors = true
		}
		if correctSeen == 0 && len(opts) > 0 {
			opts[0].Correct = true
		}

		if len(opts) > maxOptions {
			opts = opts[:maxOptions]
			hadErrors = true
		}

		seen := make(map[string]struct{}, len(opts))
		deduped := opts[:0]
		for _, opt := range opts {
			if _, dup := seen[opt.Text]; dup {
				hadErrors = true
				continue
			}
			seen[opt.Text] = struct{}{}
			deduped = append(deduped, opt)
		}
		opts = deduped

		for i := range opts {
			if truncated, changed := truncateRunes(opts[i].Text, maxLen); changed {
				opts[i].Text = truncated
				hadErrors = true
			}
		}

		repaired = append(repaired, domain.Question{Prompt: q.Prompt, Options: opts})
	}
	return repaired, hadErrors
}

// truncateRunes clips s to limit runes plus an ellipsis marker. Rune-based so
// multi-byte text is never split mid-character.
func truncateRunes(s string, limit int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return string(runes[:limit]) + "...", true
}
