package models

import (
	"strings"
	"time"
)

// TaskStatus represents the tracker state of a task.
type TaskStatus string

const (
	// TaskStatusTodo indicates the task has not started.
	TaskStatusTodo TaskStatus = "todo"
	// TaskStatusInProgress indicates the task is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusDone indicates the task is complete.
	TaskStatusDone TaskStatus = "done"
	// TaskStatusBlocked indicates the task cannot proceed.
	TaskStatusBlocked TaskStatus = "blocked"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// PriorityTag is the tracker priority attached to a task.
type PriorityTag string

const (
	PriorityCritical PriorityTag = "critical"
	PriorityHigh     PriorityTag = "high"
	PriorityMedium   PriorityTag = "medium"
	PriorityLow      PriorityTag = "low"
)

// Valid returns true if the priority is a known value.
func (p PriorityTag) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities from most (0) to least (3) important.
// Unknown priorities rank last.
func (p PriorityTag) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}

// DateLayout is the calendar-date format used for due and created dates.
const DateLayout = "2006-01-02"

// DefaultEstimatedHours is assumed for tasks that carry no estimate.
const DefaultEstimatedHours = 1.0

// Task represents one unit of work to schedule.
type Task struct {
	// ID is unique within a planning run.
	ID      string     `json:"id" yaml:"id"`
	Title   string     `json:"title" yaml:"title"`
	Project string     `json:"project,omitempty" yaml:"project,omitempty"`
	Status  TaskStatus `json:"status" yaml:"status"`
	// Priority is the tracker priority tag. Empty or unknown values score as medium.
	Priority PriorityTag `json:"priority,omitempty" yaml:"priority,omitempty"`
	// DueDate is an ISO date (or date-time). Empty means no deadline.
	DueDate string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	// CreatedDate is an ISO date used only for sorting.
	CreatedDate string `json:"created_date,omitempty" yaml:"created_date,omitempty"`
	// EstimatedHours is the expected effort. Zero, set or omitted, means
	// unknown and is scheduled as DefaultEstimatedHours (one hour).
	EstimatedHours float64  `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	StoryPoints    int      `json:"story_points,omitempty" yaml:"story_points,omitempty"`
	Labels         []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Blocked        bool     `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	BlockerReason  string   `json:"blocker_reason,omitempty" yaml:"blocker_reason,omitempty"`
	Assignee       string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasLabel reports whether the task carries the given label.
func (t Task) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// EstimatedMinutes returns the estimate in minutes. A zero estimate,
// including an explicit 0, counts as DefaultEstimatedHours.
func (t Task) EstimatedMinutes() float64 {
	hours := t.EstimatedHours
	if hours == 0 {
		hours = DefaultEstimatedHours
	}
	return hours * 60
}

// Due parses the due date. ok is false when the task has no due date or
// the value cannot be parsed.
func (t Task) Due() (due time.Time, ok bool) {
	return ParseDate(t.DueDate)
}

// ParseDate parses an ISO date or date-time string and returns its calendar
// date at midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, "2006-01-02T15:04:05", "2006-01-02T15:04", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return DateOf(ts), true
		}
	}
	return time.Time{}, false
}

// DateOf truncates t to its calendar date (in t's own location) expressed at
// midnight UTC, so date differences are whole days.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ScoredTask is a Task plus its priority sub-scores.
// Created once per task per run; never modified afterwards.
type ScoredTask struct {
	Task
	// Urgency is derived from the priority tag, blocked flag and labels (0-100).
	Urgency float64 `json:"urgency"`
	// Impact is derived from project, story points and labels (0-100).
	Impact float64 `json:"impact"`
	// DeadlineScore is derived from days until due (0-100).
	DeadlineScore float64 `json:"deadline_score"`
	// Context is derived from momentum and blockers (0-100).
	Context float64 `json:"context"`
	// PriorityScore is the weighted composite, rounded to one decimal place.
	PriorityScore float64 `json:"priority_score"`
}
