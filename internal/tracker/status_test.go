package tracker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func issue(key, status, priority string, labels ...string) Issue {
	return Issue{Key: key, Summary: "Issue " + key, Status: status, Priority: priority, Labels: labels}
}

func TestComputeMetrics(t *testing.T) {
	issues := []Issue{
		{Key: "a", Status: "Done", StoryPoints: 5},
		{Key: "b", Status: "Done", StoryPoints: 3},
		{Key: "c", Status: "In Progress", StoryPoints: 2},
		{Key: "d", Status: "To Do", Labels: []string{"blocked"}, StoryPoints: 1},
		{Key: "e", Status: "Blocked"},
		{Key: "f", Status: "To Do"},
	}

	m := ComputeMetrics(issues)

	want := Metrics{
		TotalTasks:           6,
		CompletedTasks:       2,
		InProgressTasks:      1,
		BlockedTasks:         2,
		TodoTasks:            1,
		CompletionPercentage: 33.3,
		StoryPoints:          StoryPointTotals{Total: 11, Completed: 8, Remaining: 3},
	}
	if m != want {
		t.Errorf("metrics = %+v, want %+v", m, want)
	}

	if empty := ComputeMetrics(nil); empty.TotalTasks != 0 || empty.CompletionPercentage != 0 {
		t.Errorf("empty metrics = %+v", empty)
	}
}

func TestIdentifyBlockers_SortedBySeverity(t *testing.T) {
	issues := []Issue{
		issue("low", "Blocked", "Low"),
		issue("none", "To Do", "High"),
		issue("crit", "To Do", "Highest", "blocked"),
		issue("done", "Done", "Highest", "blocked"),
		issue("med", "Blocked", "Medium"),
	}

	got := IdentifyBlockers(issues)

	wantOrder := []string{"crit", "med", "low"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d blockers, want %d: %+v", len(got), len(wantOrder), got)
	}
	for i, key := range wantOrder {
		if got[i].TaskID != key {
			t.Errorf("blocker %d = %s, want %s", i, got[i].TaskID, key)
		}
	}
	if got[0].Owner != Unassigned || got[0].Reason != NoReason {
		t.Errorf("defaults not applied: %+v", got[0])
	}
}

func TestOverall(t *testing.T) {
	withPct := func(total, done int) Metrics {
		m := Metrics{TotalTasks: total, CompletedTasks: done}
		if total > 0 {
			m.CompletionPercentage = float64(done) / float64(total) * 100
		}
		return m
	}
	b := func(sev ...Severity) []Blocker {
		out := []Blocker{}
		for _, s := range sev {
			out = append(out, Blocker{Severity: s})
		}
		return out
	}

	tests := []struct {
		name     string
		metrics  Metrics
		blockers []Blocker
		want     OverallStatus
	}{
		{"no issues", withPct(0, 0), nil, StatusUnknown},
		{"critical blocker", withPct(10, 10), b(SeverityCritical), StatusAtRisk},
		{"three blockers", withPct(10, 9), b(SeverityLow, SeverityLow, SeverityLow), StatusAtRisk},
		{"ninety percent with a blocker", withPct(10, 9), b(SeverityHigh), StatusOnTrack},
		{"seventy percent clean", withPct(10, 7), nil, StatusOnTrack},
		{"seventy percent with blocker", withPct(10, 7), b(SeverityMedium), StatusAtRisk},
		{"early with blocker", withPct(10, 2), b(SeverityLow), StatusAtRisk},
		{"early clean", withPct(10, 2), nil, StatusOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overall(tt.metrics, tt.blockers); got != tt.want {
				t.Errorf("Overall() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReporter_ProjectStatus(t *testing.T) {
	f := newFakeJira(t)
	r := NewReporter(newTestClient(t, f))
	fixed := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	status, err := r.ProjectStatus(context.Background(), "PHOE")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}

	if status.ProjectName != "Project Phoenix" || status.ProjectKey != "PHOE" || status.DataSource != "jira" {
		t.Errorf("status header = %+v", status)
	}
	if status.Sprint == nil || status.Sprint.ID != 42 {
		t.Errorf("sprint = %+v", status.Sprint)
	}
	if f.jql[0] != `project = "PHOE" AND sprint = 42` {
		t.Errorf("jql = %q", f.jql[0])
	}
	if len(status.Blockers) != 1 || status.Blockers[0].Severity != SeverityCritical {
		t.Errorf("blockers = %+v", status.Blockers)
	}
	if status.Status != StatusAtRisk {
		t.Errorf("status = %s, want at_risk", status.Status)
	}
	if !status.LastUpdated.Equal(fixed) {
		t.Errorf("last updated = %v", status.LastUpdated)
	}
}

func TestReporter_NotFoundCarriesSuggestions(t *testing.T) {
	r := NewReporter(newTestClient(t, newFakeJira(t)))

	_, err := r.ProjectStatus(context.Background(), "Mobile")
	if err != nil {
		t.Fatalf("fuzzy match should find Phoenix Mobile: %v", err)
	}

	_, err = r.ProjectStatus(context.Background(), "Zeus")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrProjectNotFound) {
		t.Error("NotFoundError should unwrap to ErrProjectNotFound")
	}
	if nf.Query != "Zeus" || len(nf.Suggestions) != 0 {
		t.Errorf("not found error = %+v", nf)
	}
}

func TestDemoStatus(t *testing.T) {
	status, err := NewDemo().ProjectStatus(context.Background(), "Phoenix")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if !status.DemoMode || status.DataSource != "demo" {
		t.Error("demo status should be flagged")
	}
	if status.Metrics.TotalTasks != 10 || status.Metrics.CompletedTasks != 6 {
		t.Errorf("metrics = %+v", status.Metrics)
	}
	if status.CompletionPercentage != 60 {
		t.Errorf("completion = %v, want 60", status.CompletionPercentage)
	}
	if status.Status != StatusAtRisk || len(status.Blockers) != 1 {
		t.Errorf("status = %s with %d blockers", status.Status, len(status.Blockers))
	}
	var _ StatusSource = NewDemo()
	var _ StatusSource = (*Reporter)(nil)
}
