package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"quizmaster-service/internal/domain"
)

var (
	reNumberedItem = regexp.MustCompile(`^\d+\.\s`)
	reLetteredItem = regexp.MustCompile(`^[A-Za-z]\)\s`)
	reQuestionNum  = regexp.MustCompile(`question\s+\d+[:.\s]`)
	reKeyword      = regexp.MustCompile(`question|savol|вопрос`)
	reListItem     = regexp.MustCompile(`^[A-Za-z0-9][).\s]|^\([A-Za-z0-9]\)`)
	reListPrefix   = regexp.MustCompile(`^\(?[A-Za-z0-9]\)?[).\s]+`)
	rePlusMinus    = regexp.MustCompile(`^[+\-]\s`)
)

// extractHeuristic re-scans a document using weak signals: trailing question
// marks, numbered or lettered items, and language-specific question keywords
// (English, Uzbek, Russian — the languages the source documents come in).
// For each candidate question the following window lines are scanned for
// option-like lines; a "+"-prefixed line is correct regardless of scan order,
// otherwise the first collected option is assumed correct. The same clipping
// and dedupe repairs as the structural path apply to the output.
func extractHeuristic(lines []string, window, maxOptions int) ([]domain.Question, bool) {
	var questions []domain.Question
	hadErrors := false

	i := 0
	for i < len(lines) {
		if !looksLikeQuestion(lines[i]) {
			i++
			continue
		}

		prompt := lines[i]
		var options []domain.Option
		correctFound := false

		j := i + 1
	scan:
		for j < len(lines) && j <= i+window {
			line := lines[j]
			switch {
			case rePlusMinus.MatchString(line):
				text := strings.TrimSpace(line[1:])
				if strings.HasPrefix(line, "+") {
					// Explicit correct marker wins no matter where it appears.
					options = append([]domain.Option{{Text: text, Correct: true}}, options...)
					correctFound = true
				} else {
					options = append(options, domain.Option{Text: text})
				}
				j++
			case reListItem.MatchString(line):
				text := strings.TrimSpace(reListPrefix.ReplaceAllString(line, ""))
				if !correctFound {
					options = append([]domain.Option{{Text: text, Correct: true}}, options...)
					correctFound = true
				} else {
					options = append(options, domain.Option{Text: text})
				}
				j++
			default:
				if len(options) > 0 {
					// Options stopped; this question is done.
					break scan
				}
				if utf8.RuneCountInString(line) >= 100 {
					break scan
				}
				// Short unmarked line right after the question: take it as
				// the correct answer.
				options = append(options, domain.Option{Text: line, Correct: true})
				correctFound = true
				j++
			}
		}

		if len(options) == 0 {
			i++
			continue
		}

		if len(options) > maxOptions {
			options = options[:maxOptions]
			hadErrors = true
		}
		seen := make(map[string]struct{}, len(options))
		deduped := options[:0]
		for _, opt := range options {
			if _, dup := seen[opt.Text]; dup {
				hadErrors = true
				continue
			}
			seen[opt.Text] = struct{}{}
			deduped = append(deduped, opt)
		}
		questions = append(questions, domain.Question{Prompt: prompt, Options: deduped})
		i = j
	}
	return questions, hadErrors
}

func looksLikeQuestion(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.HasSuffix(line, "?"):
		return true
	case reNumberedItem.MatchString(line) && len(line) > 3:
		return true
	case reQuestionNum.MatchString(lower):
		return true
	case reLetteredItem.MatchString(line) && len(line) > 3:
		return true
	case reKeyword.MatchString(lower):
		return true
	}
	return false
}
