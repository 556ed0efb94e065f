package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter renders run exports as YAML
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Format returns the codec format identifier
func (e *YAMLExporter) Format() string {
	return "yaml"
}

// ContentType returns the HTTP content type for this format
func (e *YAMLExporter) ContentType() string {
	return "application/yaml"
}

// Export writes the bundle as YAML
func (e *YAMLExporter) Export(ex *Export, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(ex); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
