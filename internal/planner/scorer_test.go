package planner

import (
	"reflect"
	"testing"

	"github.com/ShayCichocki/copilot/pkg/models"
)

func dueIn(days int) string {
	return testDay.AddDate(0, 0, days).Format(models.DateLayout)
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want float64
	}{
		{"critical", models.Task{Priority: models.PriorityCritical}, 100},
		{"high", models.Task{Priority: models.PriorityHigh}, 75},
		{"medium", models.Task{Priority: models.PriorityMedium}, 50},
		{"low", models.Task{Priority: models.PriorityLow}, 25},
		{"missing tag defaults to medium", models.Task{}, 50},
		{"unknown tag defaults to medium", models.Task{Priority: "urgent"}, 50},
		{"blocked boost", models.Task{Priority: models.PriorityHigh, Blocked: true}, 90},
		{"critical path boost", models.Task{Priority: models.PriorityLow, Labels: []string{LabelCriticalPath}}, 35},
		{"both boosts capped", models.Task{Priority: models.PriorityHigh, Blocked: true, Labels: []string{LabelCriticalPath}}, 100},
		{"critical blocked capped", models.Task{Priority: models.PriorityCritical, Blocked: true}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Urgency(tt.task); got != tt.want {
				t.Errorf("Urgency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImpact(t *testing.T) {
	s := NewScorer("Phoenix")

	tests := []struct {
		name string
		task models.Task
		want float64
	}{
		{"base", models.Task{}, 50},
		{"primary project", models.Task{Project: "Phoenix"}, 70},
		{"other project", models.Task{Project: "Atlas"}, 50},
		{"five points", models.Task{StoryPoints: 5}, 65},
		{"three points", models.Task{StoryPoints: 3}, 60},
		{"two points", models.Task{StoryPoints: 2}, 50},
		{"blocker label", models.Task{Labels: []string{LabelBlocker}}, 70},
		{"external dependency label", models.Task{Labels: []string{LabelExternalDependency}}, 60},
		{"everything capped", models.Task{
			Project:     "Phoenix",
			StoryPoints: 8,
			Labels:      []string{LabelBlocker, LabelExternalDependency},
		}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Impact(tt.task); got != tt.want {
				t.Errorf("Impact() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImpact_PrimaryProjectIsConfigurable(t *testing.T) {
	task := models.Task{Project: "Atlas"}

	if got := NewScorer("Atlas").Impact(task); got != 70 {
		t.Errorf("Atlas scorer Impact() = %v, want 70", got)
	}
	if got := NewScorer("").Impact(models.Task{}); got != 50 {
		t.Errorf("empty primary project should not boost unnamed projects, got %v", got)
	}
}

func TestDeadlineScore(t *testing.T) {
	tests := []struct {
		name string
		due  string
		want float64
	}{
		{"no due date", "", 50},
		{"unparseable", "soon", 50},
		{"overdue", dueIn(-3), 100},
		{"due today", dueIn(0), 100},
		{"due tomorrow", dueIn(1), 90},
		{"two days", dueIn(2), 75},
		{"three days", dueIn(3), 75},
		{"four days", dueIn(4), 60},
		{"seven days", dueIn(7), 60},
		{"eight days", dueIn(8), 76},
		{"twenty days", dueIn(20), 40},
		{"far future floors at 30", dueIn(60), 30},
		{"date time value", testDay.AddDate(0, 0, 1).Format("2006-01-02T15:04:05"), 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeadlineScore(models.Task{DueDate: tt.due}, testDay.Add(10*60*60*1e9))
			if got != tt.want {
				t.Errorf("DeadlineScore(%q) = %v, want %v", tt.due, got, tt.want)
			}
		})
	}
}

func TestContextScore(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want float64
	}{
		{"todo", models.Task{Status: models.TaskStatusTodo}, 50},
		{"in progress", models.Task{Status: models.TaskStatusInProgress}, 80},
		{"blocked", models.Task{Blocked: true}, 70},
		{"in progress and blocked", models.Task{Status: models.TaskStatusInProgress, Blocked: true}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContextScore(tt.task); got != tt.want {
				t.Errorf("ContextScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_CriticalDueToday(t *testing.T) {
	s := NewScorer("Phoenix")
	task := models.Task{
		ID:       "T-1",
		Title:    "Ship the fix",
		Project:  "Atlas",
		Status:   models.TaskStatusTodo,
		Priority: models.PriorityCritical,
		DueDate:  dueIn(0),
	}

	got := s.Score(task, testDay)

	if got.DeadlineScore != 100 {
		t.Errorf("DeadlineScore = %v, want 100", got.DeadlineScore)
	}
	if got.Urgency != 100 {
		t.Errorf("Urgency = %v, want 100", got.Urgency)
	}
	want := round1(100*0.4 + got.Impact*0.3 + 100*0.2 + got.Context*0.1)
	if got.PriorityScore != want {
		t.Errorf("PriorityScore = %v, want %v", got.PriorityScore, want)
	}
	if got.PriorityScore != 80.0 {
		t.Errorf("PriorityScore = %v, want 80.0 (impact 50, context 50)", got.PriorityScore)
	}

	ranked := s.Rank([]models.Task{
		{ID: "T-2", Priority: models.PriorityLow},
		task,
		{ID: "T-3", Priority: models.PriorityMedium, DueDate: dueIn(10)},
	}, testDay)
	if ranked[0].ID != "T-1" {
		t.Errorf("top ranked = %s, want T-1", ranked[0].ID)
	}
}

func TestScore_ReferenceTasks(t *testing.T) {
	s := NewScorer("Phoenix")

	tests := []struct {
		task models.Task
		want [5]float64 // urgency, impact, deadline, context, priority
	}{
		{
			models.Task{ID: "PHOE-178", Project: "Phoenix", Status: models.TaskStatusTodo, Priority: models.PriorityHigh,
				DueDate: dueIn(0), StoryPoints: 5, Labels: []string{"review", "api", "critical-path"}},
			[5]float64{85, 85, 100, 50, 84.5},
		},
		{
			models.Task{ID: "PHOE-145", Project: "Phoenix", Status: models.TaskStatusInProgress, Priority: models.PriorityCritical,
				DueDate: dueIn(1), StoryPoints: 3, Labels: []string{"blocker", "external-dependency"}, Blocked: true},
			[5]float64{100, 100, 90, 100, 98.0},
		},
		{
			models.Task{ID: "ATLS-234", Project: "Atlas", Status: models.TaskStatusTodo, Priority: models.PriorityHigh,
				DueDate: dueIn(3), StoryPoints: 5},
			[5]float64{75, 65, 75, 50, 69.5},
		},
		{
			models.Task{ID: "PHOE-201", Project: "Phoenix", Status: models.TaskStatusTodo, Priority: models.PriorityLow,
				DueDate: dueIn(7), StoryPoints: 5},
			[5]float64{25, 85, 60, 50, 52.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.task.ID, func(t *testing.T) {
			got := s.Score(tt.task, testDay)
			have := [5]float64{got.Urgency, got.Impact, got.DeadlineScore, got.Context, got.PriorityScore}
			if have != tt.want {
				t.Errorf("scores = %v, want %v", have, tt.want)
			}
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	s := NewScorer("Phoenix")
	priorities := []models.PriorityTag{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow, ""}
	statuses := []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone, models.TaskStatusBlocked}
	labelSets := [][]string{nil, {LabelCriticalPath, LabelBlocker, LabelExternalDependency}}
	dues := []string{"", "bad", dueIn(-30), dueIn(0), dueIn(2), dueIn(9), dueIn(400)}

	for _, p := range priorities {
		for _, st := range statuses {
			for _, labels := range labelSets {
				for _, due := range dues {
					for _, blocked := range []bool{false, true} {
						task := models.Task{ID: "x", Project: "Phoenix", Priority: p, Status: st,
							Labels: labels, DueDate: due, Blocked: blocked, StoryPoints: 13}
						got := s.Score(task, testDay)
						for name, v := range map[string]float64{
							"urgency":  got.Urgency,
							"impact":   got.Impact,
							"deadline": got.DeadlineScore,
							"context":  got.Context,
							"priority": got.PriorityScore,
						} {
							if v < 0 || v > 100 {
								t.Fatalf("%s = %v out of range for %+v", name, v, task)
							}
						}
					}
				}
			}
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer("Phoenix")
	task := models.Task{ID: "A", Priority: models.PriorityHigh, DueDate: dueIn(2), Labels: []string{LabelBlocker}}

	first := s.Score(task, testDay)
	second := s.Score(task, testDay)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scores differ between calls: %+v vs %+v", first, second)
	}
}

func TestScore_DoesNotMutateInput(t *testing.T) {
	s := NewScorer("Phoenix")
	labels := []string{LabelBlocker}
	task := models.Task{ID: "A", Labels: labels}

	scored := s.Score(task, testDay)
	scored.Labels[0] = "changed"

	if labels[0] != LabelBlocker {
		t.Error("scored copy shares label storage with input")
	}
}

func TestRank_StableForTies(t *testing.T) {
	s := NewScorer("Phoenix")
	tasks := []models.Task{
		{ID: "first", Priority: models.PriorityMedium},
		{ID: "top", Priority: models.PriorityCritical},
		{ID: "second", Priority: models.PriorityMedium},
		{ID: "third", Priority: models.PriorityMedium},
	}

	ranked := s.Rank(tasks, testDay)

	var ids []string
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	want := []string{"top", "first", "second", "third"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("rank order = %v, want %v", ids, want)
	}
}

func TestValidateTasks(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []models.Task
		wantErr bool
	}{
		{"empty", nil, false},
		{"unique", []models.Task{{ID: "a"}, {ID: "b"}}, false},
		{"duplicate", []models.Task{{ID: "a"}, {ID: "a"}}, true},
		{"missing id", []models.Task{{Title: "nameless"}}, true},
		{"negative estimate", []models.Task{{ID: "a", EstimatedHours: -1}}, true},
		{"zero estimate is fine", []models.Task{{ID: "a"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTasks(tt.tasks)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTasks() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
		})
	}
}
