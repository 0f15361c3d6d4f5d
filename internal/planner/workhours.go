package planner

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" 24-hour time.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// On returns the instant at this clock time on day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// WorkHours is the daily window inside which free time is computed.
type WorkHours struct {
	Start Clock
	End   Clock
}

// DefaultWorkHours returns 09:00-18:00.
func DefaultWorkHours() WorkHours {
	return WorkHours{
		Start: Clock{Hour: 9},
		End:   Clock{Hour: 18},
	}
}

// ParseWorkHours parses "HH:MM" bounds and checks that start precedes end.
func ParseWorkHours(start, end string) (WorkHours, error) {
	s, err := ParseClock(start)
	if err != nil {
		return WorkHours{}, &ValidationError{Field: "work hours", Reason: err.Error()}
	}
	e, err := ParseClock(end)
	if err != nil {
		return WorkHours{}, &ValidationError{Field: "work hours", Reason: err.Error()}
	}
	wh := WorkHours{Start: s, End: e}
	if err := wh.Validate(); err != nil {
		return WorkHours{}, err
	}
	return wh, nil
}

// Validate checks that the window is non-empty.
func (w WorkHours) Validate() error {
	if w.End.minutes() <= w.Start.minutes() {
		return &ValidationError{
			Field:  "work hours",
			Reason: fmt.Sprintf("end %s is not after start %s", w.End, w.Start),
		}
	}
	return nil
}

// Window returns the work window on the given day.
func (w WorkHours) Window(day time.Time) (start, end time.Time) {
	return w.Start.On(day), w.End.On(day)
}

func (w WorkHours) String() string {
	return w.Start.String() + "-" + w.End.String()
}
