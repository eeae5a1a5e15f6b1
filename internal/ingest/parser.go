package ingest

import "quizmaster-service/internal/domain"

// parseMarkerPrefixed consumes classified lines under the marker-prefixed
// strategy. A "?" line starts a new question, closing the previous one if it
// collected at least one option. "+" lines are front-inserted and tagged
// correct; "-" lines are appended. A later "+" on the same question is
// inserted ahead of the earlier one; the duplicate correct tag is resolved
// (and flagged) by integrity repair.
func parseMarkerPrefixed(lines []string) []domain.Question {
	var (
		questions []domain.Question
		prompt    string
		open      bool
		options   []domain.Option
	)

	flush := func() {
		if open && len(options) > 0 {
			questions = append(questions, domain.Question{Prompt: prompt, Options: options})
			options = nil
		}
	}

	for _, line := range lines {
		switch ClassifyLine(line) {
		case LineQuestion:
			flush()
			prompt = markerText(line)
			open = true
		case LineCorrect:
			options = append([]domain.Option{{Text: markerText(line), Correct: true}}, options...)
		case LineWrong:
			options = append(options, domain.Option{Text: markerText(line)})
		}
		// Plain lines and legacy markers carry no meaning in this format.
	}
	flush()
	return questions
}

// parseLegacySeparator consumes lines under the legacy-separator strategy.
// "++++" closes the pending question, "====" is a no-op, "#" front-inserts
// the correct option, the first other non-empty line opens a question and
// later ones append as wrong options.
func parseLegacySeparator(lines []string) []domain.Question {
	var (
		questions []domain.Question
		prompt    string
		open      bool
		options   []domain.Option
	)

	for _, line := range lines {
		switch ClassifyLine(line) {
		case LineBlockSep:
			if open && len(options) > 0 {
				questions = append(questions, domain.Question{Prompt: prompt, Options: options})
			}
			prompt, open, options = "", false, nil
		case LineOptionsSep:
			// separator between options, nothing to do
		case LineCorrectLegacy:
			options = append([]domain.Option{{Text: markerText(line), Correct: true}}, options...)
		default:
			// "?", "+" and "-" prefixes have no special meaning here.
			if !open {
				prompt = line
				open = true
			} else {
				options = append(options, domain.Option{Text: line})
			}
		}
	}
	if open && len(options) > 0 {
		questions = append(questions, domain.Question{Prompt: prompt, Options: options})
	}
	return questions
}
