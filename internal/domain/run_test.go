package domain

import "testing"

func TestNewRun(t *testing.T) {
	run := NewRun("net.inp")

	if run.ID == "" {
		t.Error("expected generated ID")
	}
	if run.InputName != "net.inp" {
		t.Errorf("InputName = %q", run.InputName)
	}
	if run.Status != RunStatusPending {
		t.Errorf("Status = %s", run.Status)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	other := NewRun("net.inp")
	if other.ID == run.ID {
		t.Error("IDs must be unique")
	}
}

func TestRunFinished(t *testing.T) {
	cases := []struct {
		status RunStatus
		want   bool
	}{
		{RunStatusPending, false},
		{RunStatusRunning, false},
		{RunStatusCompleted, true},
		{RunStatusFailed, true},
	}
	for _, tc := range cases {
		run := &Run{Status: tc.status}
		if got := run.Finished(); got != tc.want {
			t.Errorf("Finished(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
