// Package handler exposes the repair and run API over HTTP.
package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"flume/internal/codec"
	"flume/internal/domain"
	"flume/internal/inp"
	"flume/internal/service"
)

// maxDocumentBytes bounds uploaded network documents
const maxDocumentBytes = 8 << 20

// RunHandler handles repair and run API requests
type RunHandler struct {
	svc *service.RunService
	// inputDir is listed by GET /api/inputs; empty disables the endpoint
	inputDir string
	// defaultRoughness seeds per-request repair pipelines
	defaultRoughness float64
}

// NewRunHandler creates a new run handler
func NewRunHandler(svc *service.RunService, inputDir string, defaultRoughness float64) *RunHandler {
	if defaultRoughness <= 0 {
		defaultRoughness = inp.DefaultRoughness
	}
	return &RunHandler{svc: svc, inputDir: inputDir, defaultRoughness: defaultRoughness}
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Repair repairs a document without invoking the solver. The request body
// is the raw document; the response is the repaired document as plain text.
// An optional ?roughness= overrides the configured pipe-roughness default.
func (h *RunHandler) Repair(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	roughness := h.defaultRoughness
	if v := r.URL.Query().Get("roughness"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			h.writeError(w, "Invalid roughness", "roughness must be a positive number", http.StatusBadRequest)
			return
		}
		roughness = parsed
	}

	repaired := inp.NewPipeline(roughness).Apply(raw)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, repaired); err != nil {
		log.Printf("Failed to write repair response: %v", err)
	}
}

// CreateRun repairs the posted document and drives the solver over it.
// The document arrives either as the request body, or by naming a file in
// the input directory with ?input=<name>.
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("input")

	var raw string
	if name != "" {
		data, err := h.readInputFile(name)
		if err != nil {
			h.writeError(w, "Cannot read input", err.Error(), http.StatusBadRequest)
			return
		}
		raw = string(data)
	} else {
		body, ok := h.readDocument(w, r)
		if !ok {
			return
		}
		raw = body
		name = r.URL.Query().Get("name")
		if name == "" {
			name = "upload.inp"
		}
	}

	run, err := h.svc.Execute(r.Context(), name, raw)
	if err != nil {
		log.Printf("Run failed for %s: %v", name, err)
		// The run record carries the solver's message; surface both
		h.writeJSON(w, run, http.StatusUnprocessableEntity)
		return
	}

	h.writeJSON(w, run, http.StatusCreated)
}

// ListRuns returns all runs, newest first
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.svc.ListRuns(r.Context())
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		h.writeError(w, "Failed to list runs", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, runs, http.StatusOK)
}

// GetRun returns a single run by ID
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, run, http.StatusOK)
}

// DeleteRun removes a run and its results
func (h *RunHandler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteRun(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Run not found", id, http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete run %s: %v", id, err)
		h.writeError(w, "Failed to delete run", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLinks returns the link results for a run
func (h *RunHandler) GetLinks(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	results, err := h.svc.GetResults(r.Context(), run.ID)
	if err != nil {
		log.Printf("Failed to get results for %s: %v", run.ID, err)
		h.writeError(w, "Failed to get results", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, results.Links, http.StatusOK)
}

// GetNodes returns the node results for a run
func (h *RunHandler) GetNodes(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	results, err := h.svc.GetResults(r.Context(), run.ID)
	if err != nil {
		log.Printf("Failed to get results for %s: %v", run.ID, err)
		h.writeError(w, "Failed to get results", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, results.Nodes, http.StatusOK)
}

// ExportRun streams a run with its results in the requested format
func (h *RunHandler) ExportRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	exporter := codec.ForFormat(format)
	if exporter == nil {
		h.writeError(w, "Unsupported format", format, http.StatusBadRequest)
		return
	}

	results, err := h.svc.GetResults(r.Context(), run.ID)
	if err != nil {
		log.Printf("Failed to get results for %s: %v", run.ID, err)
		h.writeError(w, "Failed to get results", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	if err := exporter.Export(codec.NewExport(run, results), w); err != nil {
		log.Printf("Failed to export run %s: %v", run.ID, err)
	}
}

// ListInputs lists candidate network documents in the input directory
func (h *RunHandler) ListInputs(w http.ResponseWriter, r *http.Request) {
	if h.inputDir == "" {
		h.writeJSON(w, []string{}, http.StatusOK)
		return
	}

	entries, err := os.ReadDir(h.inputDir)
	if err != nil {
		log.Printf("Failed to read input dir %s: %v", h.inputDir, err)
		h.writeError(w, "Failed to read input directory", err.Error(), http.StatusInternalServerError)
		return
	}

	names := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".inp") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	h.writeJSON(w, names, http.StatusOK)
}

// lookupRun resolves {id}; writes the error response itself on failure
func (h *RunHandler) lookupRun(w http.ResponseWriter, r *http.Request) (*domain.Run, bool) {
	id := r.PathValue("id")
	found, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		log.Printf("Failed to get run %s: %v", id, err)
		h.writeError(w, "Failed to get run", err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if found == nil {
		h.writeError(w, "Run not found", id, http.StatusNotFound)
		return nil, false
	}
	return found, true
}

// readDocument reads a bounded raw document body
func (h *RunHandler) readDocument(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		h.writeError(w, "Failed to read body", err.Error(), http.StatusBadRequest)
		return "", false
	}
	if len(data) == 0 {
		h.writeError(w, "Empty document", "request body is required", http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

// readInputFile loads a named document from the input directory, refusing
// names that escape it
func (h *RunHandler) readInputFile(name string) ([]byte, error) {
	if h.inputDir == "" {
		return nil, os.ErrNotExist
	}
	if name != filepath.Base(name) {
		return nil, os.ErrPermission
	}
	return os.ReadFile(filepath.Join(h.inputDir, name))
}

func (h *RunHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (h *RunHandler) writeError(w http.ResponseWriter, errMsg, details string, statusCode int) {
	h.writeJSON(w, ErrorResponse{Error: errMsg, Details: details}, statusCode)
}
