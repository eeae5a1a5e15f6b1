package ingest

import "strings"

// LineClass is the classification of a single trimmed document line.
type LineClass int

const (
	// LinePlain is any line without a recognized marker.
	LinePlain LineClass = iota
	// LineQuestion starts a new question in the marker-prefixed format ("?...").
	LineQuestion
	// LineCorrect marks the correct option in the marker-prefixed format ("+...").
	LineCorrect
	// LineWrong marks a wrong option in the marker-prefixed format ("-...").
	LineWrong
	// LineCorrectLegacy marks the correct option in the legacy format ("#...").
	LineCorrectLegacy
	// LineBlockSep closes a question block in the legacy format ("++++").
	LineBlockSep
	// LineOptionsSep separates options in the legacy format ("===="); a no-op.
	LineOptionsSep
)

// ClassifyLine classifies one trimmed line. Separator checks run before the
// marker checks so "++++" is a block separator, not a correct option.
func ClassifyLine(line string) LineClass {
	switch {
	case line == "++++" || strings.HasPrefix(line, "+++++"):
		return LineBlockSep
	case line == "====" || strings.HasPrefix(line, "====="):
		return LineOptionsSep
	case strings.HasPrefix(line, "?"):
		return LineQuestion
	case strings.HasPrefix(line, "+"):
		return LineCorrect
	case strings.HasPrefix(line, "-"):
		return LineWrong
	case strings.HasPrefix(line, "#"):
		return LineCorrectLegacy
	default:
		return LinePlain
	}
}

// markerText strips the single-character marker and surrounding space.
func markerText(line string) string {
	return strings.TrimSpace(line[1:])
}
