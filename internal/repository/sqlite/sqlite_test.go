package sqlite

import (
	"context"
	"testing"
	"time"

	"flume/internal/domain"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := domain.NewRun("net7.inp")
	assertNoError(t, repo.CreateRun(ctx, run))

	t.Run("get returns the stored run", func(t *testing.T) {
		got, err := repo.GetRun(ctx, run.ID)
		assertNoError(t, err)
		if got == nil {
			t.Fatal("run not found")
		}
		if got.InputName != "net7.inp" || got.Status != domain.RunStatusPending {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("update transitions status", func(t *testing.T) {
		now := time.Now().UTC()
		run.Status = domain.RunStatusCompleted
		run.StartedAt = &now
		run.EndedAt = &now
		run.LinkCount = 3
		assertNoError(t, repo.UpdateRun(ctx, run))

		got, err := repo.GetRun(ctx, run.ID)
		assertNoError(t, err)
		if got.Status != domain.RunStatusCompleted {
			t.Errorf("status = %s", got.Status)
		}
		if got.StartedAt == nil || got.EndedAt == nil {
			t.Error("timestamps not persisted")
		}
		if got.LinkCount != 3 {
			t.Errorf("link count = %d", got.LinkCount)
		}
	})

	t.Run("get missing run returns nil", func(t *testing.T) {
		got, err := repo.GetRun(ctx, "nope")
		assertNoError(t, err)
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("update missing run errors", func(t *testing.T) {
		missing := domain.NewRun("ghost.inp")
		if err := repo.UpdateRun(ctx, missing); err == nil {
			t.Error("expected error")
		}
	})
}

func TestListRunsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := domain.NewRun("a.inp")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := domain.NewRun("b.inp")

	assertNoError(t, repo.CreateRun(ctx, older))
	assertNoError(t, repo.CreateRun(ctx, newer))

	runs, err := repo.ListRuns(ctx)
	assertNoError(t, err)
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("expected newest first, got %s", runs[0].InputName)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := domain.NewRun("net.inp")
	assertNoError(t, repo.CreateRun(ctx, run))

	results := domain.RunResults{
		Links: []domain.LinkResult{
			{RunID: run.ID, LinkID: "P1", FromNode: "R1", ToNode: "J1", Length: 1200, Diameter: 100, Roughness: 100, Flow: 12.5},
			{RunID: run.ID, LinkID: "P2", FromNode: "J1", ToNode: "J2", Length: 800, Diameter: 250, Roughness: 130, Flow: -3.25},
		},
		Nodes: []domain.NodeResult{
			{RunID: run.ID, NodeID: "J1", Pressure: 52.1},
		},
	}
	assertNoError(t, repo.SaveResults(ctx, run.ID, results))

	got, err := repo.GetResults(ctx, run.ID)
	assertNoError(t, err)
	if len(got.Links) != 2 || len(got.Nodes) != 1 {
		t.Fatalf("got %d links, %d nodes", len(got.Links), len(got.Nodes))
	}
	if got.Links[0].LinkID != "P1" || got.Links[0].Flow != 12.5 {
		t.Errorf("link = %+v", got.Links[0])
	}
	if got.Nodes[0].Pressure != 52.1 {
		t.Errorf("node = %+v", got.Nodes[0])
	}
}

func TestDeleteRunCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := domain.NewRun("net.inp")
	assertNoError(t, repo.CreateRun(ctx, run))
	assertNoError(t, repo.SaveResults(ctx, run.ID, domain.RunResults{
		Nodes: []domain.NodeResult{{RunID: run.ID, NodeID: "J1", Pressure: 1}},
	}))

	assertNoError(t, repo.DeleteRun(ctx, run.ID))

	got, err := repo.GetResults(ctx, run.ID)
	assertNoError(t, err)
	if len(got.Nodes) != 0 {
		t.Errorf("results not cascaded: %+v", got.Nodes)
	}

	if err := repo.DeleteRun(ctx, run.ID); err == nil {
		t.Error("expected error deleting missing run")
	}
}
