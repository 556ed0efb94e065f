package inp

// minSectionDataLines is the smallest body (in substantive lines) a section
// must have to survive pruning. A section carrying its header plus at most
// one real line is degenerate and gets dropped whole.
const minSectionDataLines = 2

// PruneEmptySections removes every section whose body holds at most one
// substantive (non-blank, non-comment) line — header and body both. Material
// before the first header is always kept. Everything that survives keeps its
// original order and bytes.
func PruneEmptySections(doc Document) Document {
	out := make(Document, 0, len(doc))

	// Accumulate the current section (header included) and commit it only
	// once we know its body is worth keeping.
	var buf Document
	buffering := false

	flush := func() {
		if !buffering {
			// Leading material before any header is never pruned.
			out = append(out, buf...)
			return
		}
		// The terminal [END] marker is structural, not a data section;
		// dropping it would leave mandatory-section insertion nowhere
		// to splice.
		if headerIs(buf[0], endSection) || countDataLines(buf[1:]) >= minSectionDataLines {
			out = append(out, buf...)
		}
	}

	for _, line := range doc {
		if Classify(line) == KindHeader {
			flush()
			buf = Document{line}
			buffering = true
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return out
}

func countDataLines(lines Document) int {
	n := 0
	for _, line := range lines {
		if Classify(line) == KindData {
			n++
		}
	}
	return n
}
