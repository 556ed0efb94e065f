package inp

import (
	"strconv"
	"strings"
)

// pipeFieldCount is the column count the solver expects for every record in
// the PIPES section: id, node1, node2, length, diameter, roughness,
// minorLoss, status.
const pipeFieldCount = 8

// pipesSection is the section whose records RepairPipes rewrites.
const pipesSection = "PIPES"

// RepairPipes rewrites every data record inside the PIPES section to exactly
// eight whitespace-joined fields, substituting a positional default for any
// missing trailing column. Lines outside PIPES, blanks, and comments pass
// through untouched. The stage never fails; field text is relocated, not
// validated.
func RepairPipes(doc Document, defaultRoughness float64) Document {
	defaults := pipeDefaults(defaultRoughness)

	out := make(Document, 0, len(doc))
	inPipes := false
	for _, line := range doc {
		switch Classify(line) {
		case KindHeader:
			inPipes = strings.EqualFold(HeaderName(line), pipesSection)
			out = append(out, line)
		case KindData:
			if inPipes {
				out = append(out, repairRecord(line, defaults))
			} else {
				out = append(out, line)
			}
		default:
			out = append(out, line)
		}
	}
	return out
}

// pipeDefaults is the default vector resolved against a record's positional
// tokens: any token beyond what the record supplied takes the default at its
// position.
func pipeDefaults(roughness float64) [pipeFieldCount]string {
	return [pipeFieldCount]string{
		"",  // id
		"",  // node1
		"",  // node2
		"0", // length
		"100",
		strconv.FormatFloat(roughness, 'f', -1, 64),
		"0.0",
		"Open",
	}
}

func repairRecord(line string, defaults [pipeFieldCount]string) string {
	tokens := strings.Fields(line)
	fields := make([]string, pipeFieldCount)
	for i := 0; i < pipeFieldCount; i++ {
		if i < len(tokens) {
			fields[i] = tokens[i]
		} else {
			fields[i] = defaults[i]
		}
	}
	return strings.Join(fields, " ")
}
