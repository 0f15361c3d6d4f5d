// Package report renders copilot results as Markdown for chat, the CLI
// and the HTTP API.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// TopPriorities is how many ranked tasks the plan report lists.
const TopPriorities = 5

// HeaderDateLayout formats the plan date in the report title.
const HeaderDateLayout = "Monday, January 02, 2006"

const clockLayout = "03:04 PM"

// QuickActions close every plan report.
var QuickActions = []string{
	"View detailed task breakdown",
	"Reschedule meetings for more focus time",
	"Mark tasks as complete",
	"Get help with blockers",
}

// RenderPlan renders a daily plan: overview, top priorities, the day's
// meetings and scheduled work in time order, suggestions and quick actions.
func RenderPlan(plan models.PriorityPlan, events []models.CalendarEvent, today time.Time) string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("# 🗓️ Daily Priority Plan - %s\n", today.Format(HeaderDateLayout))

	s := plan.Summary
	add("## 📊 Overview\n")
	add("**Total Tasks:** %d", s.TotalTasks)
	add("**High Priority:** %d", s.HighPriorityCount)
	add("**Meetings:** %d minutes", s.TotalMeetingMins)
	add("**Available Time:** %d minutes\n", s.TotalFreeMins)

	add("## 🎯 Top Priorities\n")
	for i, t := range plan.RankedTasks {
		if i == TopPriorities {
			break
		}
		add("%d. %s **%s** (Score: %.1f)", i+1, priorityMarker(t.Priority), t.Title, t.PriorityScore)
		add("   - Project: %s", orDefault(t.Project, "Unknown"))
		add("   - Due: %s", orDefault(t.DueDate, "No deadline"))
		if t.Blocked {
			add("   - ⚠️ BLOCKED: %s", orDefault(t.BlockerReason, "Unknown"))
		}
		add("")
	}

	add("## 📅 Your Schedule\n")
	for _, e := range timeline(events, plan.Schedule) {
		add("%s", e)
	}
	add("")

	if len(plan.Suggestions) > 0 {
		add("## 💡 Suggestions\n")
		for _, sug := range plan.Suggestions {
			add("• %s", sug)
		}
		add("")
	}

	add("## ⚡ Quick Actions\n")
	for _, a := range QuickActions {
		add("• %s", a)
	}

	return strings.Join(lines, "\n")
}

type timelineEntry struct {
	start   time.Time
	meeting bool
	text    string
}

// timeline merges meetings and scheduled work by start time. Meetings sort
// ahead of work starting at the same minute.
func timeline(events []models.CalendarEvent, schedule []models.ScheduledItem) []string {
	entries := make([]timelineEntry, 0, len(events)+len(schedule))
	for _, e := range events {
		entries = append(entries, timelineEntry{
			start:   e.Start,
			meeting: true,
			text:    fmt.Sprintf("**%s - %s:** 📞 %s", e.Start.Format(clockLayout), e.End.Format(clockLayout), e.Title),
		})
	}
	for _, it := range schedule {
		entries = append(entries, timelineEntry{
			start: it.Start,
			text: fmt.Sprintf("**%s - %s:** 🎯 %s (%s)",
				it.Start.Format(clockLayout), it.End.Format(clockLayout), it.TaskTitle, it.BlockType.Label()),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].start.Equal(entries[j].start) {
			return entries[i].start.Before(entries[j].start)
		}
		return entries[i].meeting && !entries[j].meeting
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.text
	}
	return out
}

func priorityMarker(p models.PriorityTag) string {
	switch p {
	case models.PriorityCritical:
		return "⚠️"
	case models.PriorityHigh:
		return "🔴"
	default:
		return "🟡"
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// number prints a float without trailing zeros: 60 -> "60", 33.3 -> "33.3".
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
