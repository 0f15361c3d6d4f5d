package tracker

import (
	"context"
	"math"
	"strings"

	"github.com/ShayCichocki/copilot/internal/sources"
	"github.com/ShayCichocki/copilot/pkg/models"
)

// Tasks implements sources.TaskSource over open issues assigned to
// q.UserEmail, or to the authenticated user when no email is given.
func (c *Client) Tasks(ctx context.Context, q sources.Query) ([]models.Task, error) {
	assignee := "currentUser()"
	if q.UserEmail != "" {
		assignee = quoteJQL(q.UserEmail)
	}
	issues, err := c.SearchIssues(ctx, "assignee = "+assignee+" AND statusCategory != Done ORDER BY duedate ASC")
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(issues))
	for _, is := range issues {
		tasks = append(tasks, ToTask(is))
	}
	return q.Run(tasks), nil
}

// MapStatus normalizes a tracker workflow status name.
func MapStatus(name string) models.TaskStatus {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "done", "closed", "resolved", "complete", "completed":
		return models.TaskStatusDone
	case "in progress", "in review", "review", "in development":
		return models.TaskStatusInProgress
	case "blocked", "on hold", "impeded":
		return models.TaskStatusBlocked
	default:
		return models.TaskStatusTodo
	}
}

// MapPriority normalizes a tracker priority name. Unknown names map to the
// empty tag, which scores as medium.
func MapPriority(name string) models.PriorityTag {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "highest", "critical", "blocker":
		return models.PriorityCritical
	case "high", "major":
		return models.PriorityHigh
	case "medium", "normal":
		return models.PriorityMedium
	case "low", "lowest", "minor", "trivial":
		return models.PriorityLow
	default:
		return ""
	}
}

// IsBlocked reports whether an issue is blocked, either by status or by a
// label mentioning "blocked".
func IsBlocked(is Issue) bool {
	if MapStatus(is.Status) == models.TaskStatusBlocked {
		return true
	}
	for _, l := range is.Labels {
		if strings.Contains(strings.ToLower(l), "blocked") {
			return true
		}
	}
	return false
}

// ToTask converts an issue to a planner task.
func ToTask(is Issue) models.Task {
	created := is.Created
	if len(created) > len(models.DateLayout) {
		created = created[:len(models.DateLayout)]
	}
	return models.Task{
		ID:             is.Key,
		Title:          is.Summary,
		Project:        is.Project,
		Status:         MapStatus(is.Status),
		Priority:       MapPriority(is.Priority),
		DueDate:        is.DueDate,
		CreatedDate:    created,
		EstimatedHours: float64(is.EstimateSeconds) / 3600,
		StoryPoints:    int(math.Round(is.StoryPoints)),
		Labels:         is.Labels,
		Blocked:        IsBlocked(is),
		Assignee:       is.Assignee,
		Description:    is.Description,
	}
}
