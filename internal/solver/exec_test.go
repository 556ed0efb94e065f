package solver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeSolver writes a shell script that mimics the solver CLI contract:
// argv is input/report/output; the script copies canned report text into
// the report path.
func fakeSolver(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake solver")
	}
	path := filepath.Join(t.TempDir(), "fakesolver")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("write fake solver: %v", err)
	}
	return path
}

func TestExecEngineSolve(t *testing.T) {
	bin := fakeSolver(t, `printf 'Link Results:\nP1 1.5 0.1 0.0\n' > "$2"`+"\n")

	dir := t.TempDir()
	job := Job{
		InputPath:  filepath.Join(dir, "net.inp"),
		ReportPath: filepath.Join(dir, "net.rpt"),
		OutputPath: filepath.Join(dir, "net.out"),
	}
	if err := os.WriteFile(job.InputPath, []byte("[END]\n"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	engine := NewExecEngine(ExecConfig{Binary: bin, Timeout: 5 * time.Second})
	if err := engine.Solve(context.Background(), job); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	report, err := ParseReportFile(job.ReportPath)
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(report.Links) != 1 || report.Links[0].ID != "P1" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestExecEngineSolverRejection(t *testing.T) {
	bin := fakeSolver(t, `echo 'Error 200: one or more errors in input file' >&2; exit 1`+"\n")

	engine := NewExecEngine(ExecConfig{Binary: bin, Timeout: 5 * time.Second})
	err := engine.Solve(context.Background(), Job{InputPath: "bad.inp"})
	if err == nil {
		t.Fatal("expected rejection error")
	}
	if !strings.Contains(err.Error(), "Error 200") {
		t.Errorf("error should carry the solver's message, got: %v", err)
	}
}

func TestExecEngineTimeout(t *testing.T) {
	bin := fakeSolver(t, "sleep 10\n")

	engine := NewExecEngine(ExecConfig{Binary: bin, Timeout: 100 * time.Millisecond})
	start := time.Now()
	err := engine.Solve(context.Background(), Job{InputPath: "net.inp"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not apply")
	}
}

func TestExecEngineDefaults(t *testing.T) {
	engine := NewExecEngine(ExecConfig{})
	if engine.config.Binary != "runepanet" {
		t.Errorf("Binary = %q", engine.config.Binary)
	}
	if engine.config.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", engine.config.Timeout)
	}
}
