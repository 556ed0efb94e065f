// Package codec renders stored run results in exchange formats.
package codec

import (
	"io"

	"flume/internal/domain"
)

// Export bundles a run with the results queried from the solver
type Export struct {
	Run   *domain.Run         `json:"run" yaml:"run"`
	Links []domain.LinkResult `json:"links" yaml:"links"`
	Nodes []domain.NodeResult `json:"nodes" yaml:"nodes"`
}

// Exporter writes a run export in one concrete format
type Exporter interface {
	Export(ex *Export, w io.Writer) error
	Format() string
	ContentType() string
}

// NewExport assembles an export bundle
func NewExport(run *domain.Run, results domain.RunResults) *Export {
	return &Export{
		Run:   run,
		Links: results.Links,
		Nodes: results.Nodes,
	}
}

// ForFormat returns the exporter for a format name, or nil if unsupported
func ForFormat(format string) Exporter {
	switch format {
	case "yaml", "yml":
		return NewYAMLExporter()
	case "json", "":
		return NewJSONExporter()
	default:
		return nil
	}
}
