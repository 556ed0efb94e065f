package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks a simulation run through its lifecycle
type RunStatus string

const (
	// RunStatusPending - run created, solver not yet invoked
	RunStatusPending RunStatus = "pending"
	// RunStatusRunning - solver is executing
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted - solver finished and results were stored
	RunStatusCompleted RunStatus = "completed"
	// RunStatusFailed - solver rejected the document or crashed
	RunStatusFailed RunStatus = "failed"
)

// Run represents one repair-and-solve cycle over an input document
type Run struct {
	ID string `json:"id" yaml:"id"`
	// InputName is the caller-supplied name of the source document
	InputName string    `json:"input_name" yaml:"input_name"`
	Status    RunStatus `json:"status" yaml:"status"`
	// Error carries the solver collaborator's message when Status is failed
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// RepairedPath is where the repaired document was written for the solver
	RepairedPath string `json:"repaired_path,omitempty" yaml:"repaired_path,omitempty"`
	// ReportPath is the solver's report file
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	// LinkCount and NodeCount summarize stored results
	LinkCount int        `json:"link_count" yaml:"link_count"`
	NodeCount int        `json:"node_count" yaml:"node_count"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
}

// NewRun creates a pending run for the named input document
func NewRun(inputName string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		InputName: inputName,
		Status:    RunStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Finished reports whether the run reached a terminal status
func (r *Run) Finished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
