package inp

import "strings"

// Document is an ordered sequence of text lines. Stages never mutate a
// Document in place; each produces a fresh one.
type Document []string

// Parse splits raw text into a Document. Carriage returns are dropped so
// CRLF input round-trips as plain LF output.
func Parse(text string) Document {
	lines := strings.Split(text, "\n")
	doc := make(Document, len(lines))
	for i, line := range lines {
		doc[i] = strings.TrimSuffix(line, "\r")
	}
	return doc
}

// String joins the document back into text with single newlines.
func (d Document) String() string {
	return strings.Join(d, "\n")
}
