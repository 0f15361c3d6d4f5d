package models

import "time"

// CalendarEvent is a fixed commitment on the day being planned.
type CalendarEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
	// DurationMinutes is the length as reported by the calendar. When zero it
	// is derived from Start and End.
	DurationMinutes int      `json:"duration_minutes"`
	Type            string   `json:"type,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// Minutes returns the event length in minutes.
func (e CalendarEvent) Minutes() int {
	if e.DurationMinutes > 0 {
		return e.DurationMinutes
	}
	return int(e.End.Sub(e.Start) / time.Minute)
}

// FreeBlock is a contiguous interval with no event.
type FreeBlock struct {
	Start           time.Time `json:"start_time"`
	End             time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// NewFreeBlock builds a block for [start, end), truncating to whole minutes.
func NewFreeBlock(start, end time.Time) FreeBlock {
	return FreeBlock{
		Start:           start,
		End:             end,
		DurationMinutes: int(end.Sub(start) / time.Minute),
	}
}

// BusyPeriod is one occupied interval reported by an availability check.
type BusyPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
}

// Availability summarizes one day of the calendar.
type Availability struct {
	Date        string       `json:"date"`
	IsAvailable bool         `json:"is_available"`
	FreeBlocks  []FreeBlock  `json:"free_blocks"`
	BusyPeriods []BusyPeriod `json:"busy_periods"`
}
