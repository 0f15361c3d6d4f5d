package planner

import (
	"testing"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

var testDay = time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 2, 11, hour, minute, 0, 0, time.UTC)
}

func event(id string, startH, startM, endH, endM int) models.CalendarEvent {
	return models.CalendarEvent{
		ID:    id,
		Title: "Meeting " + id,
		Start: at(startH, startM),
		End:   at(endH, endM),
	}
}

func TestComputeFreeBlocks_NoEvents(t *testing.T) {
	blocks, err := ComputeFreeBlocks(nil, at(9, 0), at(18, 0))
	if err != nil {
		t.Fatalf("ComputeFreeBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if !blocks[0].Start.Equal(at(9, 0)) || !blocks[0].End.Equal(at(18, 0)) {
		t.Errorf("block = %v-%v, want 09:00-18:00", blocks[0].Start, blocks[0].End)
	}
	if blocks[0].DurationMinutes != 540 {
		t.Errorf("duration = %d, want 540", blocks[0].DurationMinutes)
	}
}

func TestComputeFreeBlocks_EventAtWorkStart(t *testing.T) {
	blocks, err := ComputeFreeBlocks([]models.CalendarEvent{event("standup", 9, 0, 9, 15)}, at(9, 0), at(18, 0))
	if err != nil {
		t.Fatalf("ComputeFreeBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d: %+v", len(blocks), blocks)
	}
	if !blocks[0].Start.Equal(at(9, 15)) {
		t.Errorf("start = %v, want 09:15", blocks[0].Start)
	}
	if blocks[0].DurationMinutes != 525 {
		t.Errorf("duration = %d, want 525", blocks[0].DurationMinutes)
	}
}

func TestComputeFreeBlocks_Cases(t *testing.T) {
	type span struct{ startH, startM, endH, endM, minutes int }

	tests := []struct {
		name   string
		events []models.CalendarEvent
		want   []span
	}{
		{
			name: "typical weekday",
			events: []models.CalendarEvent{
				event("standup", 9, 0, 9, 15),
				event("review", 14, 0, 15, 0),
				event("1on1", 16, 0, 16, 30),
			},
			want: []span{
				{9, 15, 14, 0, 285},
				{15, 0, 16, 0, 60},
				{16, 30, 18, 0, 90},
			},
		},
		{
			name: "unsorted input",
			events: []models.CalendarEvent{
				event("late", 16, 0, 17, 0),
				event("early", 10, 0, 11, 0),
			},
			want: []span{
				{9, 0, 10, 0, 60},
				{11, 0, 16, 0, 300},
				{17, 0, 18, 0, 60},
			},
		},
		{
			name: "overlapping events",
			events: []models.CalendarEvent{
				event("a", 10, 0, 11, 30),
				event("b", 11, 0, 12, 0),
			},
			want: []span{
				{9, 0, 10, 0, 60},
				{12, 0, 18, 0, 360},
			},
		},
		{
			name: "contained event",
			events: []models.CalendarEvent{
				event("outer", 10, 0, 13, 0),
				event("inner", 11, 0, 11, 30),
			},
			want: []span{
				{9, 0, 10, 0, 60},
				{13, 0, 18, 0, 300},
			},
		},
		{
			name: "short gaps dropped",
			events: []models.CalendarEvent{
				event("a", 9, 10, 10, 0),
				event("b", 10, 14, 17, 50),
			},
			want: []span{},
		},
		{
			name: "exactly fifteen minutes kept",
			events: []models.CalendarEvent{
				event("a", 9, 15, 17, 45),
			},
			want: []span{
				{9, 0, 9, 15, 15},
				{17, 45, 18, 0, 15},
			},
		},
		{
			name: "event outside work hours",
			events: []models.CalendarEvent{
				event("breakfast", 7, 0, 8, 0),
				event("dinner", 19, 0, 20, 0),
			},
			want: []span{
				{9, 0, 18, 0, 540},
			},
		},
		{
			name: "event straddling work end",
			events: []models.CalendarEvent{
				event("late", 17, 0, 19, 0),
			},
			want: []span{
				{9, 0, 17, 0, 480},
			},
		},
		{
			name: "day fully booked",
			events: []models.CalendarEvent{
				event("offsite", 8, 0, 19, 0),
			},
			want: []span{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := ComputeFreeBlocks(tt.events, at(9, 0), at(18, 0))
			if err != nil {
				t.Fatalf("ComputeFreeBlocks: %v", err)
			}
			if len(blocks) != len(tt.want) {
				t.Fatalf("got %d blocks, want %d: %+v", len(blocks), len(tt.want), blocks)
			}
			for i, w := range tt.want {
				b := blocks[i]
				if !b.Start.Equal(at(w.startH, w.startM)) || !b.End.Equal(at(w.endH, w.endM)) {
					t.Errorf("block %d = %s-%s, want %02d:%02d-%02d:%02d",
						i, b.Start.Format("15:04"), b.End.Format("15:04"), w.startH, w.startM, w.endH, w.endM)
				}
				if b.DurationMinutes != w.minutes {
					t.Errorf("block %d duration = %d, want %d", i, b.DurationMinutes, w.minutes)
				}
			}
			assertBlocksDisjoint(t, blocks, tt.events)
		})
	}
}

func TestComputeFreeBlocks_DoesNotMutateInput(t *testing.T) {
	events := []models.CalendarEvent{
		event("late", 16, 0, 17, 0),
		event("early", 10, 0, 11, 0),
	}
	if _, err := ComputeFreeBlocks(events, at(9, 0), at(18, 0)); err != nil {
		t.Fatalf("ComputeFreeBlocks: %v", err)
	}
	if events[0].ID != "late" || events[1].ID != "early" {
		t.Errorf("input order changed: %s, %s", events[0].ID, events[1].ID)
	}
}

func TestComputeFreeBlocks_InvalidEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   models.CalendarEvent
	}{
		{"end before start", event("bad", 11, 0, 10, 0)},
		{"zero length", event("bad", 11, 0, 11, 0)},
		{"crosses midnight", models.CalendarEvent{ID: "bad", Start: at(23, 0), End: at(23, 0).Add(2 * time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeFreeBlocks([]models.CalendarEvent{tt.ev}, at(9, 0), at(18, 0))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidation(err) {
				t.Errorf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestComputeFreeBlocks_InvalidWindow(t *testing.T) {
	_, err := ComputeFreeBlocks(nil, at(18, 0), at(9, 0))
	if !IsValidation(err) {
		t.Fatalf("expected validation error for inverted window, got %v", err)
	}
}

func TestAvailability(t *testing.T) {
	events := []models.CalendarEvent{event("standup", 9, 0, 9, 15)}

	a, err := Availability(testDay, events, DefaultWorkHours())
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if a.Date != "2026-02-11" {
		t.Errorf("date = %q", a.Date)
	}
	if !a.IsAvailable {
		t.Error("expected day to be available")
	}
	if len(a.BusyPeriods) != 1 || a.BusyPeriods[0].Title != "Meeting standup" {
		t.Errorf("busy periods = %+v", a.BusyPeriods)
	}

	booked, err := Availability(testDay, []models.CalendarEvent{event("offsite", 8, 0, 19, 0)}, DefaultWorkHours())
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if booked.IsAvailable {
		t.Error("fully booked day should not be available")
	}
}

func assertBlocksDisjoint(t *testing.T, blocks []models.FreeBlock, events []models.CalendarEvent) {
	t.Helper()
	for i, b := range blocks {
		if b.DurationMinutes < MinFreeBlockMinutes {
			t.Errorf("block %d shorter than threshold: %d", i, b.DurationMinutes)
		}
		if i > 0 && b.Start.Before(blocks[i-1].End) {
			t.Errorf("block %d overlaps block %d", i, i-1)
		}
		for _, ev := range events {
			if b.Start.Before(ev.End) && ev.Start.Before(b.End) {
				t.Errorf("block %d overlaps event %s", i, ev.ID)
			}
		}
	}
}
