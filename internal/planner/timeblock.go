package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// MinFreeBlockMinutes is the shortest gap reported as a free block.
const MinFreeBlockMinutes = 15

// ComputeFreeBlocks returns the gaps between events inside
// [workStart, workEnd), ordered by start time. Gaps shorter than
// MinFreeBlockMinutes are dropped. Overlapping and nested events are
// merged implicitly. The events slice is not modified.
func ComputeFreeBlocks(events []models.CalendarEvent, workStart, workEnd time.Time) ([]models.FreeBlock, error) {
	if !workEnd.After(workStart) {
		return nil, &ValidationError{
			Field:  "work hours",
			Reason: fmt.Sprintf("end %s is not after start %s", workEnd.Format(time.Kitchen), workStart.Format(time.Kitchen)),
		}
	}
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}

	sorted := make([]models.CalendarEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	blocks := []models.FreeBlock{}
	cursor := workStart
	for _, ev := range sorted {
		if cursor.Before(ev.Start) {
			end := ev.Start
			if end.After(workEnd) {
				end = workEnd
			}
			blocks = appendGap(blocks, cursor, end)
		}
		if ev.End.After(cursor) {
			cursor = ev.End
		}
	}
	if cursor.Before(workEnd) {
		blocks = appendGap(blocks, cursor, workEnd)
	}

	return blocks, nil
}

func appendGap(blocks []models.FreeBlock, start, end time.Time) []models.FreeBlock {
	if !end.After(start) {
		return blocks
	}
	b := models.NewFreeBlock(start, end)
	if b.DurationMinutes < MinFreeBlockMinutes {
		return blocks
	}
	return append(blocks, b)
}

// ValidateEvents checks that every event ends after it starts and on the
// same calendar day.
func ValidateEvents(events []models.CalendarEvent) error {
	for _, ev := range events {
		if !ev.End.After(ev.Start) {
			return &ValidationError{
				Field:  "event",
				ID:     ev.ID,
				Reason: fmt.Sprintf("end %s is not after start %s", ev.End.Format(time.RFC3339), ev.Start.Format(time.RFC3339)),
			}
		}
		sy, sm, sd := ev.Start.Date()
		ey, em, ed := ev.End.In(ev.Start.Location()).Date()
		if sy != ey || sm != em || sd != ed {
			return &ValidationError{
				Field:  "event",
				ID:     ev.ID,
				Reason: "start and end fall on different days",
			}
		}
	}
	return nil
}

// Availability reports whether the day has any free time, along with the
// free blocks and the busy periods that shape them.
func Availability(day time.Time, events []models.CalendarEvent, hours WorkHours) (models.Availability, error) {
	start, end := hours.Window(day)
	blocks, err := ComputeFreeBlocks(events, start, end)
	if err != nil {
		return models.Availability{}, err
	}

	busy := make([]models.BusyPeriod, 0, len(events))
	for _, ev := range events {
		busy = append(busy, models.BusyPeriod{Start: ev.Start, End: ev.End, Title: ev.Title})
	}

	return models.Availability{
		Date:        day.Format(models.DateLayout),
		IsAvailable: len(blocks) > 0,
		FreeBlocks:  blocks,
		BusyPeriods: busy,
	}, nil
}
