// Package service coordinates document repair, solver invocation, and
// result persistence.
package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flume/internal/domain"
	"flume/internal/inp"
	"flume/internal/repository"
	"flume/internal/solver"
)

// RunService executes repair-and-solve cycles and answers result queries
type RunService struct {
	repo     repository.Repository
	engine   solver.Engine
	pipeline *inp.Pipeline
	bus      *EventBus
	workDir  string
}

// NewRunService creates a run service
func NewRunService(repo repository.Repository, engine solver.Engine, pipeline *inp.Pipeline, bus *EventBus, workDir string) *RunService {
	return &RunService{
		repo:     repo,
		engine:   engine,
		pipeline: pipeline,
		bus:      bus,
		workDir:  workDir,
	}
}

// Repair applies the document repair pipeline without touching the solver
func (s *RunService) Repair(raw string) string {
	return s.pipeline.Apply(raw)
}

// Execute repairs the raw document, hands it to the solver, and stores the
// queried results. The returned run reflects the final status; a solver
// failure is returned alongside the failed run with the collaborator's
// message intact.
func (s *RunService) Execute(ctx context.Context, inputName, raw string) (*domain.Run, error) {
	run := domain.NewRun(inputName)
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	repaired := s.pipeline.Apply(raw)

	job, err := s.prepareJob(run, repaired)
	if err != nil {
		return s.fail(ctx, run, err)
	}
	run.RepairedPath = job.InputPath
	run.ReportPath = job.ReportPath

	now := time.Now().UTC()
	run.Status = domain.RunStatusRunning
	run.StartedAt = &now
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}
	s.bus.Publish(Event{Type: EventRunStarted, Payload: run})

	if err := s.engine.Solve(ctx, job); err != nil {
		return s.fail(ctx, run, err)
	}

	report, err := solver.ParseReportFile(job.ReportPath)
	if err != nil {
		return s.fail(ctx, run, err)
	}

	results := report.Results(run.ID, linkGeometry(repaired))
	if err := s.repo.SaveResults(ctx, run.ID, results); err != nil {
		return s.fail(ctx, run, err)
	}

	end := time.Now().UTC()
	run.Status = domain.RunStatusCompleted
	run.EndedAt = &end
	run.LinkCount = len(results.Links)
	run.NodeCount = len(results.Nodes)
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}

	log.Printf("Run %s completed: %d links, %d nodes", run.ID, run.LinkCount, run.NodeCount)
	s.bus.Publish(Event{Type: EventRunCompleted, Payload: run})
	return run, nil
}

// prepareJob writes the repaired document into the work directory and names
// the solver's report and output files next to it.
func (s *RunService) prepareJob(run *domain.Run, repaired string) (solver.Job, error) {
	if err := os.MkdirAll(s.workDir, 0755); err != nil {
		return solver.Job{}, fmt.Errorf("create work dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(run.InputName), filepath.Ext(run.InputName))
	if base == "" || base == "." {
		base = "network"
	}
	base = fmt.Sprintf("%s-%s", base, run.ID[:8])

	job := solver.Job{
		InputPath:  filepath.Join(s.workDir, base+".inp"),
		ReportPath: filepath.Join(s.workDir, base+".rpt"),
		OutputPath: filepath.Join(s.workDir, base+".out"),
	}

	if err := os.WriteFile(job.InputPath, []byte(repaired), 0644); err != nil {
		return solver.Job{}, fmt.Errorf("write repaired document: %w", err)
	}
	return job, nil
}

// fail records a terminal failure and propagates the cause
func (s *RunService) fail(ctx context.Context, run *domain.Run, cause error) (*domain.Run, error) {
	end := time.Now().UTC()
	run.Status = domain.RunStatusFailed
	run.Error = cause.Error()
	run.EndedAt = &end
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		log.Printf("Failed to record run failure for %s: %v", run.ID, err)
	}
	log.Printf("Run %s failed: %v", run.ID, cause)
	s.bus.Publish(Event{Type: EventRunFailed, Payload: run})
	return run, cause
}

// GetRun loads one run
func (s *RunService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	return s.repo.GetRun(ctx, id)
}

// ListRuns returns all runs, newest first
func (s *RunService) ListRuns(ctx context.Context) ([]*domain.Run, error) {
	return s.repo.ListRuns(ctx)
}

// DeleteRun removes a run and its results
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	if err := s.repo.DeleteRun(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventRunDeleted, Payload: map[string]string{"id": id}})
	return nil
}

// GetResults loads the stored solver results for a run
func (s *RunService) GetResults(ctx context.Context, id string) (domain.RunResults, error) {
	return s.repo.GetResults(ctx, id)
}
