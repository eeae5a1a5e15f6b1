package ingest

// Strategy selects which parser runs for a document. Detection is exclusive:
// exactly one strategy runs, there is no blending.
type Strategy int

const (
	// StrategyMarker is the "?question / +correct / -wrong" format.
	StrategyMarker Strategy = iota
	// StrategyLegacy is the "++++" block-separator format with "#" correct
	// markers.
	StrategyLegacy
	// StrategyHeuristic is the weak-signal free-text extractor.
	StrategyHeuristic
)

// DetectFormat inspects all lines once and picks the parsing strategy.
// Question markers together with answer markers select the marker-prefixed
// format; block separators or legacy correct markers select the legacy
// format; anything else falls to the heuristic extractor.
func DetectFormat(lines []string) Strategy {
	var hasQuestion, hasAnswerMarker, hasSeparator, hasLegacyCorrect bool
	for _, line := range lines {
		switch ClassifyLine(line) {
		case LineQuestion:
			hasQuestion = true
		case LineCorrect, LineWrong:
			hasAnswerMarker = true
		case LineBlockSep:
			hasSeparator = true
		case LineCorrectLegacy:
			hasLegacyCorrect = true
		}
	}
	switch {
	case hasQuestion && hasAnswerMarker:
		return StrategyMarker
	case hasSeparator || hasLegacyCorrect:
		return StrategyLegacy
	default:
		return StrategyHeuristic
	}
}
