package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONExporter renders run exports as indented JSON
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format returns the codec format identifier
func (e *JSONExporter) Format() string {
	return "json"
}

// ContentType returns the HTTP content type for this format
func (e *JSONExporter) ContentType() string {
	return "application/json"
}

// Export writes the bundle as JSON
func (e *JSONExporter) Export(ex *Export, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ex); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
