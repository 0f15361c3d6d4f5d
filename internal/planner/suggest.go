package planner

import (
	"fmt"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// HeavyMeetingMinutes is the meeting total above which a day counts as heavy.
const HeavyMeetingMinutes = 180

// Suggest derives advisories from the ranked tasks, the day's events and
// the schedule. Each advisory is triggered independently; the list is empty
// when nothing applies.
func Suggest(tasks []models.ScoredTask, events []models.CalendarEvent, schedule []models.ScheduledItem, today time.Time) []string {
	suggestions := []string{}

	criticalBlocked := 0
	dueToday := 0
	for _, t := range tasks {
		if t.Blocked && t.Priority == models.PriorityCritical {
			criticalBlocked++
		}
		if due, ok := t.Due(); ok && due.Equal(models.DateOf(today)) {
			dueToday++
		}
	}

	if criticalBlocked > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("⚠️ CRITICAL: %d blocked task(s) need immediate escalation", criticalBlocked))
	}
	if dueToday > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("🎯 %d task(s) due today - prioritize completion", dueToday))
	}

	if meeting := MeetingMinutes(events); meeting > HeavyMeetingMinutes {
		suggestions = append(suggestions,
			fmt.Sprintf("📅 Heavy meeting day (%s) - consider rescheduling non-critical meetings for focus time", FormatMinutes(meeting)))
	}

	scheduled := make(map[string]bool, len(schedule))
	for _, item := range schedule {
		scheduled[item.TaskID] = true
	}
	unscheduled := 0
	for _, t := range tasks {
		if t.PriorityScore >= HighPriorityThreshold && !scheduled[t.ID] {
			unscheduled++
		}
	}
	if unscheduled > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("⏰ %d high-priority task(s) not scheduled - may need to defer lower-priority work", unscheduled))
	}

	return suggestions
}

// MeetingMinutes sums event durations.
func MeetingMinutes(events []models.CalendarEvent) int {
	total := 0
	for _, ev := range events {
		total += ev.Minutes()
	}
	return total
}

// FormatMinutes renders a minute count as "Hh Mm".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
