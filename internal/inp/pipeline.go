package inp

// DefaultRoughness is the roughness coefficient substituted into pipe
// records missing that column when the caller configures nothing else.
const DefaultRoughness = 100

// Pipeline composes the three repair stages in fixed order: pipe-record
// repair, then empty-section pruning, then mandatory-section insertion.
// The ordering matters — PIPES is judged for emptiness on its repaired
// content, and freshly inserted stubs are never pruning candidates.
//
// A Pipeline is stateless and safe for concurrent use.
type Pipeline struct {
	defaultRoughness float64
}

// NewPipeline returns a Pipeline using roughness as the pipe-record default.
// A non-positive roughness falls back to DefaultRoughness.
func NewPipeline(roughness float64) *Pipeline {
	if roughness <= 0 {
		roughness = DefaultRoughness
	}
	return &Pipeline{defaultRoughness: roughness}
}

// Apply runs the full repair pipeline over raw document text and returns the
// repaired text. It is a total function: structurally odd input degrades to
// best-effort repair, never an error.
func (p *Pipeline) Apply(text string) string {
	doc := Parse(text)
	doc = RepairPipes(doc, p.defaultRoughness)
	doc = PruneEmptySections(doc)
	doc = EnsureMandatorySections(doc)
	return doc.String()
}
