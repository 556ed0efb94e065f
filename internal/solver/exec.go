package solver

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ExecConfig holds configuration for the local exec engine
type ExecConfig struct {
	// Binary is the solver executable, invoked as: binary input report output
	Binary string
	// Timeout bounds a single solve
	Timeout time.Duration
}

// DefaultExecConfig returns sensible defaults for a locally installed solver
func DefaultExecConfig() ExecConfig {
	return ExecConfig{
		Binary:  "runepanet",
		Timeout: 60 * time.Second,
	}
}

// ExecEngine invokes the solver binary on the local machine
type ExecEngine struct {
	config ExecConfig
	mu     sync.Mutex
	busy   bool
}

// NewExecEngine creates an engine around a local solver binary
func NewExecEngine(config ExecConfig) *ExecEngine {
	if config.Binary == "" {
		config.Binary = DefaultExecConfig().Binary
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultExecConfig().Timeout
	}
	return &ExecEngine{config: config}
}

// Name returns the engine identifier
func (e *ExecEngine) Name() string {
	return "exec"
}

// Solve runs the solver binary over the job files. The solver's own message
// (stderr, or stdout when stderr is empty) is carried in the returned error.
func (e *ExecEngine) Solve(ctx context.Context, job Job) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return fmt.Errorf("solver busy: %s", e.config.Binary)
	}
	e.busy = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.config.Binary, job.InputPath, job.ReportPath, job.OutputPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	log.Printf("Solver starting: %s %s", e.config.Binary, job.InputPath)

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return fmt.Errorf("solver %s rejected %s: %s: %w", e.config.Binary, job.InputPath, msg, err)
		}
		return fmt.Errorf("solver %s failed on %s: %w", e.config.Binary, job.InputPath, err)
	}

	log.Printf("Solver finished: %s (%s)", job.InputPath, time.Since(start).Round(time.Millisecond))
	return nil
}
