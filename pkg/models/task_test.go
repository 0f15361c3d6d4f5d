package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTaskStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status TaskStatus
		want   bool
	}{
		{"todo is valid", TaskStatusTodo, true},
		{"in_progress is valid", TaskStatusInProgress, true},
		{"done is valid", TaskStatusDone, true},
		{"blocked is valid", TaskStatusBlocked, true},
		{"empty string is invalid", TaskStatus(""), false},
		{"unknown status is invalid", TaskStatus("pending"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("TaskStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPriorityTag_Rank(t *testing.T) {
	tests := []struct {
		tag  PriorityTag
		want int
	}{
		{PriorityCritical, 0},
		{PriorityHigh, 1},
		{PriorityMedium, 2},
		{PriorityLow, 3},
		{PriorityTag(""), 99},
		{PriorityTag("urgent"), 99},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			if got := tt.tag.Rank(); got != tt.want {
				t.Errorf("PriorityTag(%q).Rank() = %d, want %d", tt.tag, got, tt.want)
			}
		})
	}
}

func TestTask_HasLabel(t *testing.T) {
	task := Task{Labels: []string{"review", "critical-path"}}

	if !task.HasLabel("critical-path") {
		t.Error("expected critical-path label to be found")
	}
	if task.HasLabel("blocker") {
		t.Error("did not expect blocker label")
	}
	if (Task{}).HasLabel("anything") {
		t.Error("task without labels should have no label")
	}
}

func TestTask_EstimatedMinutes(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  float64
	}{
		{"unset defaults to one hour", 0, 60},
		{"whole hours", 2, 120},
		{"fractional hours", 1.5, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{EstimatedHours: tt.hours}
			if got := task.EstimatedMinutes(); got != tt.want {
				t.Errorf("EstimatedMinutes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_ExplicitZeroEstimateIsOneHour(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id": "t1", "estimated_hours": 0}`), &task); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := task.EstimatedMinutes(); got != DefaultEstimatedHours*60 {
		t.Errorf("EstimatedMinutes() = %v, want %v", got, DefaultEstimatedHours*60)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{"date only", "2026-02-11", true},
		{"date time", "2026-02-11T17:30:00", true},
		{"rfc3339", "2026-02-11T17:30:00Z", true},
		{"padded", "  2026-02-11 ", true},
		{"empty", "", false},
		{"garbage", "next friday", false},
		{"invalid month", "2026-13-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, want)
			}
		})
	}
}

func TestCalendarEvent_Minutes(t *testing.T) {
	start := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	derived := CalendarEvent{Start: start, End: end}
	if got := derived.Minutes(); got != 45 {
		t.Errorf("derived Minutes() = %d, want 45", got)
	}

	reported := CalendarEvent{Start: start, End: end, DurationMinutes: 30}
	if got := reported.Minutes(); got != 30 {
		t.Errorf("reported Minutes() = %d, want 30", got)
	}
}

func TestBlockType_Label(t *testing.T) {
	if got := BlockTypeDeepWork.Label(); got != "Deep Work" {
		t.Errorf("deep work label = %q", got)
	}
	if got := BlockTypeFocusedTask.Label(); got != "Focused Task" {
		t.Errorf("focused task label = %q", got)
	}
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	if !p.MorningFocus {
		t.Error("expected morning focus on by default")
	}
	if !p.PreferLongBlocks {
		t.Error("expected prefer long blocks on by default")
	}
}
