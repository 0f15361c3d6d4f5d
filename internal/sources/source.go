// Package sources provides the task and calendar collaborators the planner
// is fed from: a built-in demo data set, YAML fixture files, and shared
// filtering and sorting for task queries.
package sources

import (
	"context"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// TaskSource returns the tasks for a user. An empty list is a valid answer.
type TaskSource interface {
	Tasks(ctx context.Context, q Query) ([]models.Task, error)
}

// CalendarSource returns the fixed events on one calendar day.
type CalendarSource interface {
	Events(ctx context.Context, day time.Time) ([]models.CalendarEvent, error)
}

// SortKey selects the order of a task query result.
type SortKey string

const (
	SortByDueDate     SortKey = "due_date"
	SortByPriority    SortKey = "priority"
	SortByCreatedDate SortKey = "created_date"
	SortNone          SortKey = ""
)

// Query describes a task lookup.
type Query struct {
	// UserEmail scopes the lookup to one assignee. Empty means the
	// source's default user.
	UserEmail string
	// Today anchors relative dates in generated data.
	Today  time.Time
	Filter Filter
	SortBy SortKey
}

// Filter narrows a task list. Zero fields match everything.
type Filter struct {
	Statuses  []models.TaskStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Priority  models.PriorityTag  `json:"priority,omitempty" yaml:"priority,omitempty"`
	Project   string              `json:"project,omitempty" yaml:"project,omitempty"`
	DueBefore string              `json:"due_before,omitempty" yaml:"due_before,omitempty"`
}

// ActiveFilter matches work that is still open: todo and in progress.
func ActiveFilter() Filter {
	return Filter{Statuses: []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress}}
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return len(f.Statuses) == 0 && f.Priority == "" && f.Project == "" && f.DueBefore == ""
}
