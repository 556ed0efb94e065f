package inp

import "strings"

// MandatorySections are the section names the solver requires to exist even
// when they carry no real data.
var MandatorySections = []string{"OPTIONS", "REPORT", "TIMES", "ENERGY"}

// endSection is the format's terminal marker; stubs are spliced in directly
// before it.
const endSection = "END"

// EnsureMandatorySections guarantees that a header exists for every
// mandatory section, splicing an auto-generated stub before the first [END]
// marker for each one missing. Documents without an [END] marker are
// returned with only the sections they already had — there is nowhere to
// place a stub.
func EnsureMandatorySections(doc Document) Document {
	present := make(map[string]bool)
	endIdx := -1
	for i, line := range doc {
		if Classify(line) != KindHeader {
			continue
		}
		name := strings.ToUpper(HeaderName(line))
		present[name] = true
		if endIdx < 0 && name == endSection {
			endIdx = i
		}
	}

	var stubs Document
	for _, name := range MandatorySections {
		if !present[name] {
			stubs = append(stubs, "["+name+"]", "; (auto)", "")
		}
	}
	if len(stubs) == 0 || endIdx < 0 {
		return doc
	}

	out := make(Document, 0, len(doc)+len(stubs))
	out = append(out, doc[:endIdx]...)
	out = append(out, stubs...)
	out = append(out, doc[endIdx:]...)
	return out
}
