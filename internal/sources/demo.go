package sources

import (
	"context"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// DefaultUserEmail is assigned to demo tasks when the query names no user.
const DefaultUserEmail = "john.doe@company.com"

// Demo serves a fixed, date-relative data set: six tasks across the
// Phoenix and Atlas projects and three meetings on weekdays. Weekends have
// no events.
type Demo struct{}

// NewDemo returns the demo source.
func NewDemo() *Demo {
	return &Demo{}
}

// Tasks returns the demo tasks relative to q.Today, filtered and sorted.
func (d *Demo) Tasks(ctx context.Context, q Query) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := q.Today
	if today.IsZero() {
		today = time.Now()
	}
	return q.Run(DemoTasks(today, q.UserEmail)), nil
}

// Events returns the demo meetings for day.
func (d *Demo) Events(ctx context.Context, day time.Time) ([]models.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DemoEvents(day), nil
}

// DemoTasks builds the demo task list with due dates relative to today.
func DemoTasks(today time.Time, assignee string) []models.Task {
	if assignee == "" {
		assignee = DefaultUserEmail
	}
	date := func(days int) string {
		return today.AddDate(0, 0, days).Format(models.DateLayout)
	}

	return []models.Task{
		{
			ID:             "PHOE-178",
			Title:          "Review API spec for payment integration",
			Project:        "Phoenix",
			Status:         models.TaskStatusTodo,
			Priority:       models.PriorityHigh,
			DueDate:        date(0),
			CreatedDate:    date(-3),
			EstimatedHours: 2.0,
			StoryPoints:    5,
			Labels:         []string{"review", "api", "critical-path"},
			Assignee:       assignee,
			Description:    "Review the updated API spec from engineering and provide feedback",
		},
		{
			ID:             "PHOE-145",
			Title:          "Follow up on vendor API key delay",
			Project:        "Phoenix",
			Status:         models.TaskStatusInProgress,
			Priority:       models.PriorityCritical,
			DueDate:        date(1),
			CreatedDate:    date(-8),
			EstimatedHours: 1.0,
			StoryPoints:    3,
			Labels:         []string{"blocker", "external-dependency"},
			Assignee:       assignee,
			Blocked:        true,
			BlockerReason:  "Waiting on vendor response",
		},
		{
			ID:             "PHOE-189",
			Title:          "Prepare sprint demo slides",
			Project:        "Phoenix",
			Status:         models.TaskStatusTodo,
			Priority:       models.PriorityMedium,
			DueDate:        date(4),
			CreatedDate:    date(-2),
			EstimatedHours: 1.5,
			StoryPoints:    3,
			Labels:         []string{"demo", "presentation"},
			Assignee:       assignee,
		},
		{
			ID:             "ATLS-234",
			Title:          "Review Q1 roadmap with Atlas team",
			Project:        "Atlas",
			Status:         models.TaskStatusTodo,
			Priority:       models.PriorityHigh,
			DueDate:        date(3),
			CreatedDate:    date(-5),
			EstimatedHours: 2.0,
			StoryPoints:    5,
			Labels:         []string{"planning", "roadmap"},
			Assignee:       assignee,
		},
		{
			ID:             "ATLS-245",
			Title:          "Approve design mockups for Atlas v2",
			Project:        "Atlas",
			Status:         models.TaskStatusInProgress,
			Priority:       models.PriorityMedium,
			DueDate:        date(7),
			CreatedDate:    date(-1),
			EstimatedHours: 1.0,
			StoryPoints:    2,
			Labels:         []string{"design", "approval"},
			Assignee:       assignee,
		},
		{
			ID:             "PHOE-201",
			Title:          "Update user documentation for new payment flow",
			Project:        "Phoenix",
			Status:         models.TaskStatusTodo,
			Priority:       models.PriorityLow,
			DueDate:        date(7),
			CreatedDate:    date(0),
			EstimatedHours: 3.0,
			StoryPoints:    5,
			Labels:         []string{"documentation"},
			Assignee:       assignee,
		},
	}
}

// DemoEvents builds the demo meetings for day in day's location.
func DemoEvents(day time.Time) []models.CalendarEvent {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return []models.CalendarEvent{}
	}
	at := func(hour, minute int) time.Time {
		y, m, d := day.Date()
		return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
	}

	return []models.CalendarEvent{
		{
			ID:              "evt_001",
			Title:           "Daily Standup - Phoenix Team",
			Start:           at(9, 0),
			End:             at(9, 15),
			DurationMinutes: 15,
			Type:            "meeting",
			Attendees:       []string{"Sarah Chen", "Michael Rodriguez", "Team"},
			Status:          "confirmed",
		},
		{
			ID:              "evt_002",
			Title:           "Design Review - Payment Flow",
			Start:           at(14, 0),
			End:             at(15, 0),
			DurationMinutes: 60,
			Type:            "meeting",
			Attendees:       []string{"Sarah Chen", "Jessica Wong", "Alex Kumar"},
			Status:          "confirmed",
		},
		{
			ID:              "evt_003",
			Title:           "1:1 with Sarah (Product Sync)",
			Start:           at(16, 0),
			End:             at(16, 30),
			DurationMinutes: 30,
			Type:            "meeting",
			Attendees:       []string{"Sarah Chen"},
			Status:          "confirmed",
		},
	}
}
