// Package solver drives the external hydraulic simulation engine.
//
// The engine is an opaque collaborator: flume writes a repaired input
// document, invokes the solver's open→solve→close lifecycle, and reads
// computed flows and pressures back out of the report file. Any failure here
// is the solver's verdict and is surfaced to the caller with the
// collaborator's own message attached.
package solver

import "context"

// Job names the three files of one solver invocation
type Job struct {
	// InputPath is the repaired network document
	InputPath string
	// ReportPath receives the solver's human-readable report
	ReportPath string
	// OutputPath receives the solver's binary results file
	OutputPath string
}

// Engine runs one solver lifecycle over a prepared job. Implementations
// must leave the report file in place on success so results can be queried.
type Engine interface {
	Name() string
	Solve(ctx context.Context, job Job) error
}
