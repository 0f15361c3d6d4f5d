package planner

import (
	"testing"

	"github.com/ShayCichocki/copilot/pkg/models"
)

func scored(id string, score, hours float64) models.ScoredTask {
	return models.ScoredTask{
		Task:          models.Task{ID: id, Title: "Task " + id, EstimatedHours: hours},
		PriorityScore: score,
	}
}

func block(startH, startM, endH, endM int) models.FreeBlock {
	return models.NewFreeBlock(at(startH, startM), at(endH, endM))
}

func TestAllocate_OneMorningBlockTwoHighPriorityTasks(t *testing.T) {
	tasks := []models.ScoredTask{
		scored("first", 92, 1),
		scored("second", 85, 1),
	}
	blocks := []models.FreeBlock{block(9, 0, 10, 0)}

	schedule := Allocate(tasks, blocks, models.DefaultPreferences())

	if len(schedule) != 1 {
		t.Fatalf("expected 1 scheduled item, got %d", len(schedule))
	}
	item := schedule[0]
	if item.TaskID != "first" {
		t.Errorf("scheduled %s, want first", item.TaskID)
	}
	if item.BlockType != models.BlockTypeFocusedTask {
		t.Errorf("block type = %s, want focused_task for a 60 minute block", item.BlockType)
	}
	if !item.Start.Equal(at(9, 0)) || !item.End.Equal(at(10, 0)) {
		t.Errorf("item = %v-%v, want 09:00-10:00", item.Start, item.End)
	}
}

func TestAllocate_MorningFocus(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []models.ScoredTask
		blocks    []models.FreeBlock
		prefs     models.Preferences
		wantIDs   []string
		wantTypes []models.BlockType
	}{
		{
			name:      "long morning block is deep work",
			tasks:     []models.ScoredTask{scored("hi", 90, 1)},
			blocks:    []models.FreeBlock{block(9, 0, 11, 0)},
			prefs:     models.DefaultPreferences(),
			wantIDs:   []string{"hi"},
			wantTypes: []models.BlockType{models.BlockTypeDeepWork},
		},
		{
			name:      "exactly ninety minutes is deep work",
			tasks:     []models.ScoredTask{scored("hi", 80, 1.5)},
			blocks:    []models.FreeBlock{block(10, 0, 11, 30)},
			prefs:     models.DefaultPreferences(),
			wantIDs:   []string{"hi"},
			wantTypes: []models.BlockType{models.BlockTypeDeepWork},
		},
		{
			name:    "low priority task refused in the morning",
			tasks:   []models.ScoredTask{scored("lo", 79.9, 1)},
			blocks:  []models.FreeBlock{block(9, 0, 11, 0)},
			prefs:   models.DefaultPreferences(),
			wantIDs: nil,
		},
		{
			name:      "low priority task takes the afternoon",
			tasks:     []models.ScoredTask{scored("lo", 40, 1)},
			blocks:    []models.FreeBlock{block(9, 0, 11, 0), block(14, 0, 15, 0)},
			prefs:     models.DefaultPreferences(),
			wantIDs:   []string{"lo"},
			wantTypes: []models.BlockType{models.BlockTypeFocusedTask},
		},
		{
			name:      "morning focus disabled",
			tasks:     []models.ScoredTask{scored("lo", 40, 1)},
			blocks:    []models.FreeBlock{block(9, 0, 11, 0)},
			prefs:     models.Preferences{MorningFocus: false},
			wantIDs:   []string{"lo"},
			wantTypes: []models.BlockType{models.BlockTypeFocusedTask},
		},
		{
			name:      "high priority afternoon block is focused",
			tasks:     []models.ScoredTask{scored("hi", 95, 1)},
			blocks:    []models.FreeBlock{block(13, 0, 16, 0)},
			prefs:     models.DefaultPreferences(),
			wantIDs:   []string{"hi"},
			wantTypes: []models.BlockType{models.BlockTypeFocusedTask},
		},
		{
			name:    "block under thirty minutes skipped",
			tasks:   []models.ScoredTask{scored("tiny", 90, 0.25)},
			blocks:  []models.FreeBlock{block(13, 0, 13, 25)},
			prefs:   models.DefaultPreferences(),
			wantIDs: nil,
		},
		{
			name:    "task longer than every block",
			tasks:   []models.ScoredTask{scored("big", 90, 4)},
			blocks:  []models.FreeBlock{block(13, 0, 15, 0)},
			prefs:   models.DefaultPreferences(),
			wantIDs: nil,
		},
		{
			name:      "zero estimate defaults to one hour",
			tasks:     []models.ScoredTask{scored("unknown", 50, 0), scored("short", 40, 0.5)},
			blocks:    []models.FreeBlock{block(13, 0, 13, 45)},
			prefs:     models.DefaultPreferences(),
			wantIDs:   []string{"short"},
			wantTypes: []models.BlockType{models.BlockTypeFocusedTask},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := Allocate(tt.tasks, tt.blocks, tt.prefs)
			if len(schedule) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d: %+v", len(schedule), len(tt.wantIDs), schedule)
			}
			for i, id := range tt.wantIDs {
				if schedule[i].TaskID != id {
					t.Errorf("item %d = %s, want %s", i, schedule[i].TaskID, id)
				}
				if schedule[i].BlockType != tt.wantTypes[i] {
					t.Errorf("item %d type = %s, want %s", i, schedule[i].BlockType, tt.wantTypes[i])
				}
			}
		})
	}
}

func TestAllocate_LongestBlockFirst(t *testing.T) {
	tasks := []models.ScoredTask{
		scored("a", 60, 1),
		scored("b", 55, 1),
		scored("c", 50, 1),
	}
	blocks := []models.FreeBlock{
		block(13, 0, 14, 0),
		block(14, 30, 17, 30),
		block(17, 30, 18, 0),
	}

	schedule := Allocate(tasks, blocks, models.DefaultPreferences())

	if len(schedule) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(schedule), schedule)
	}
	if schedule[0].TaskID != "a" || !schedule[0].Start.Equal(at(14, 30)) {
		t.Errorf("first item = %s at %v, want a at 14:30", schedule[0].TaskID, schedule[0].Start)
	}
	if schedule[1].TaskID != "b" || !schedule[1].Start.Equal(at(13, 0)) {
		t.Errorf("second item = %s at %v, want b at 13:00", schedule[1].TaskID, schedule[1].Start)
	}
}

func TestAllocate_EqualLengthBlocksByStart(t *testing.T) {
	tasks := []models.ScoredTask{scored("a", 60, 1), scored("b", 50, 1)}
	blocks := []models.FreeBlock{block(16, 0, 17, 0), block(13, 0, 14, 0)}

	schedule := Allocate(tasks, blocks, models.DefaultPreferences())

	if len(schedule) != 2 {
		t.Fatalf("expected 2 items, got %d", len(schedule))
	}
	if schedule[0].TaskID != "a" || !schedule[0].Start.Equal(at(13, 0)) {
		t.Errorf("first item = %s at %v, want a at 13:00", schedule[0].TaskID, schedule[0].Start)
	}
}

func TestAllocate_Invariants(t *testing.T) {
	tasks := []models.ScoredTask{
		scored("a", 95, 2),
		scored("b", 85, 1),
		scored("c", 70, 0.5),
		scored("d", 60, 1.5),
		scored("e", 30, 3),
	}
	blocks := []models.FreeBlock{
		block(9, 0, 11, 30),
		block(12, 0, 13, 0),
		block(13, 30, 14, 0),
		block(15, 0, 18, 0),
	}

	schedule := Allocate(tasks, blocks, models.DefaultPreferences())

	seenTask := make(map[string]bool)
	seenStart := make(map[string]bool)
	for _, item := range schedule {
		if seenTask[item.TaskID] {
			t.Errorf("task %s scheduled twice", item.TaskID)
		}
		seenTask[item.TaskID] = true

		key := item.Start.Format("15:04")
		if seenStart[key] {
			t.Errorf("two items share the block at %s", key)
		}
		seenStart[key] = true

		inside := false
		for _, b := range blocks {
			if !item.Start.Before(b.Start) && !item.End.After(b.End) {
				inside = true
			}
		}
		if !inside {
			t.Errorf("item %s %v-%v exceeds its block", item.TaskID, item.Start, item.End)
		}
		if got := item.End.Sub(item.Start).Minutes(); got != item.DurationMinutes {
			t.Errorf("item %s spans %v minutes, duration says %v", item.TaskID, got, item.DurationMinutes)
		}
	}
}

func TestAllocate_Empty(t *testing.T) {
	if got := Allocate(nil, []models.FreeBlock{block(9, 0, 18, 0)}, models.DefaultPreferences()); len(got) != 0 {
		t.Errorf("no tasks should give empty schedule, got %+v", got)
	}
	got := Allocate([]models.ScoredTask{scored("a", 90, 1)}, nil, models.DefaultPreferences())
	if got == nil || len(got) != 0 {
		t.Errorf("no blocks should give a non-nil empty schedule, got %#v", got)
	}
}

func TestChronological(t *testing.T) {
	schedule := []models.ScheduledItem{
		{TaskID: "late", Start: at(16, 0)},
		{TaskID: "early", Start: at(9, 0)},
		{TaskID: "mid", Start: at(12, 0)},
	}

	got := Chronological(schedule)

	want := []string{"early", "mid", "late"}
	for i, id := range want {
		if got[i].TaskID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].TaskID, id)
		}
	}
	if schedule[0].TaskID != "late" {
		t.Error("input schedule was reordered")
	}
}
