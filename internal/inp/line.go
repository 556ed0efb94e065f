package inp

import "strings"

// Kind classifies a single document line. All three pipeline stages share
// this classification so section boundaries mean the same thing everywhere.
type Kind int

const (
	// KindBlank is a line that is empty or whitespace-only.
	KindBlank Kind = iota
	// KindComment is a line whose trimmed form starts with ';'.
	KindComment
	// KindHeader is a section header: trimmed form starts with '['.
	// A missing closing bracket still counts as a boundary.
	KindHeader
	// KindData is any other line — a substantive record.
	KindData
)

// Classify returns the Kind of a raw line.
func Classify(line string) Kind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return KindBlank
	case strings.HasPrefix(trimmed, ";"):
		return KindComment
	case strings.HasPrefix(trimmed, "["):
		return KindHeader
	default:
		return KindData
	}
}

// HeaderName returns the section name of a header line with brackets
// stripped and surrounding whitespace removed. The closing bracket is
// optional. Returns "" for non-header lines.
func HeaderName(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		return ""
	}
	name := strings.TrimPrefix(trimmed, "[")
	if i := strings.Index(name, "]"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// headerIs reports whether line is a section header named name
// (case-insensitive).
func headerIs(line, name string) bool {
	return Classify(line) == KindHeader && strings.EqualFold(HeaderName(line), name)
}
