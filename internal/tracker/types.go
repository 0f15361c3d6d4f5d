// Package tracker talks to a Jira-compatible issue tracker. It serves
// assigned issues as planner tasks and derives project status reports
// (completion, blockers, overall health) from a project's issues.
package tracker

import (
	"errors"
	"time"
)

// ErrProjectNotFound is returned when no project matches a key or name.
var ErrProjectNotFound = errors.New("project not found")

// Project identifies a tracker project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Sprint is an agile sprint on a project board.
type Sprint struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Issue is the subset of tracker issue fields the copilot uses.
type Issue struct {
	Key      string   `json:"key"`
	Summary  string   `json:"summary"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Assignee string   `json:"assignee,omitempty"`
	Created  string   `json:"created,omitempty"`
	Updated  string   `json:"updated,omitempty"`
	DueDate  string   `json:"due_date,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	// StoryPoints comes from the configured custom field. Zero when unset.
	StoryPoints float64 `json:"story_points,omitempty"`
	// EstimateSeconds is the original time estimate. Zero when unset.
	EstimateSeconds int    `json:"estimate_seconds,omitempty"`
	Project         string `json:"project,omitempty"`
	Description     string `json:"description,omitempty"`
}

// OverallStatus is the health verdict for a project.
type OverallStatus string

const (
	StatusOnTrack OverallStatus = "on_track"
	StatusAtRisk  OverallStatus = "at_risk"
	StatusUnknown OverallStatus = "unknown"
)

// Severity ranks a blocker.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 99
	}
}

// StoryPointTotals sums story points across a project.
type StoryPointTotals struct {
	Total     float64 `json:"total"`
	Completed float64 `json:"completed"`
	Remaining float64 `json:"remaining"`
}

// Metrics are issue counts for a project or sprint.
type Metrics struct {
	TotalTasks           int              `json:"total_tasks"`
	CompletedTasks       int              `json:"completed_tasks"`
	InProgressTasks      int              `json:"in_progress_tasks"`
	BlockedTasks         int              `json:"blocked_tasks"`
	TodoTasks            int              `json:"todo_tasks"`
	CompletionPercentage float64          `json:"completion_percentage"`
	StoryPoints          StoryPointTotals `json:"story_points"`
}

// Blocker is a blocked issue with an owner and severity.
type Blocker struct {
	TaskID       string   `json:"task_id"`
	TaskTitle    string   `json:"task_title"`
	Reason       string   `json:"blocker_reason"`
	BlockedSince string   `json:"blocked_since,omitempty"`
	Owner        string   `json:"owner"`
	Severity     Severity `json:"severity"`
}

// ProjectStatus is the report produced for one project.
type ProjectStatus struct {
	ProjectName          string        `json:"project_name"`
	ProjectKey           string        `json:"project_key"`
	ProjectID            string        `json:"project_id"`
	Status               OverallStatus `json:"status"`
	CompletionPercentage float64       `json:"completion_percentage"`
	Sprint               *Sprint       `json:"sprint_info,omitempty"`
	Metrics              Metrics       `json:"metrics"`
	Blockers             []Blocker     `json:"blockers"`
	Issues               []Issue       `json:"tasks"`
	LastUpdated          time.Time     `json:"last_updated"`
	DataSource           string        `json:"data_source"`
	// DemoMode marks sample data served when no tracker is configured.
	DemoMode bool `json:"demo_mode,omitempty"`
}
