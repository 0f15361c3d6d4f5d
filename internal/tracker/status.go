package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

const (
	// NoReason is reported for blockers with no recorded reason.
	NoReason = "No reason specified"
	// Unassigned is reported for issues with no owner.
	Unassigned = "Unassigned"
)

// StatusSource produces project status reports.
type StatusSource interface {
	ProjectStatus(ctx context.Context, project string) (*ProjectStatus, error)
}

// NotFoundError reports an unknown project with similarly named candidates.
type NotFoundError struct {
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project %q not found", e.Query)
}

func (e *NotFoundError) Unwrap() error {
	return ErrProjectNotFound
}

// projectAPI is the part of Client the reporter needs.
type projectAPI interface {
	FindProject(ctx context.Context, idOrName string) (Project, error)
	ProjectSuggestions(ctx context.Context, term string) ([]string, error)
	ActiveSprint(ctx context.Context, projectKey string) (*Sprint, error)
	ProjectIssues(ctx context.Context, projectKey string, sprintID int) ([]Issue, error)
}

// Reporter builds project status reports from tracker data.
type Reporter struct {
	api projectAPI
	now func() time.Time
}

// NewReporter returns a reporter backed by the client.
func NewReporter(c *Client) *Reporter {
	return &Reporter{api: c, now: time.Now}
}

// ProjectStatus reports on the project's active sprint, or on all of its
// issues when it has no active sprint. Unknown projects return a
// *NotFoundError carrying name suggestions.
func (r *Reporter) ProjectStatus(ctx context.Context, project string) (*ProjectStatus, error) {
	p, err := r.api.FindProject(ctx, project)
	if errors.Is(err, ErrProjectNotFound) {
		suggestions, _ := r.api.ProjectSuggestions(ctx, project)
		return nil, &NotFoundError{Query: project, Suggestions: suggestions}
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}

	// A missing board is not fatal; fall back to the whole project.
	sprint, err := r.api.ActiveSprint(ctx, p.Key)
	if err != nil {
		sprint = nil
	}
	sprintID := 0
	if sprint != nil {
		sprintID = sprint.ID
	}

	issues, err := r.api.ProjectIssues(ctx, p.Key, sprintID)
	if err != nil {
		return nil, fmt.Errorf("fetch project issues: %w", err)
	}

	status := BuildStatus(p, sprint, issues, r.now())
	status.DataSource = "jira"
	return status, nil
}

// BuildStatus derives metrics, blockers and the overall verdict.
func BuildStatus(p Project, sprint *Sprint, issues []Issue, now time.Time) *ProjectStatus {
	metrics := ComputeMetrics(issues)
	blockers := IdentifyBlockers(issues)
	return &ProjectStatus{
		ProjectName:          p.Name,
		ProjectKey:           p.Key,
		ProjectID:            p.ID,
		Status:               Overall(metrics, blockers),
		CompletionPercentage: metrics.CompletionPercentage,
		Sprint:               sprint,
		Metrics:              metrics,
		Blockers:             blockers,
		Issues:               issues,
		LastUpdated:          now,
	}
}

// ComputeMetrics counts issues by state. Each issue lands in exactly one
// bucket: done, then blocked, then in progress, then todo.
func ComputeMetrics(issues []Issue) Metrics {
	var m Metrics
	m.TotalTasks = len(issues)
	for _, is := range issues {
		status := MapStatus(is.Status)
		m.StoryPoints.Total += is.StoryPoints
		switch {
		case status == models.TaskStatusDone:
			m.CompletedTasks++
			m.StoryPoints.Completed += is.StoryPoints
		case IsBlocked(is):
			m.BlockedTasks++
		case status == models.TaskStatusInProgress:
			m.InProgressTasks++
		default:
			m.TodoTasks++
		}
	}
	m.StoryPoints.Remaining = m.StoryPoints.Total - m.StoryPoints.Completed
	if m.TotalTasks > 0 {
		pct := float64(m.CompletedTasks) / float64(m.TotalTasks) * 100
		m.CompletionPercentage = math.Round(pct*10) / 10
	}
	return m
}

// IdentifyBlockers lists blocked, unfinished issues, most severe first.
func IdentifyBlockers(issues []Issue) []Blocker {
	blockers := []Blocker{}
	for _, is := range issues {
		if !IsBlocked(is) || MapStatus(is.Status) == models.TaskStatusDone {
			continue
		}
		owner := is.Assignee
		if owner == "" {
			owner = Unassigned
		}
		blockers = append(blockers, Blocker{
			TaskID:       is.Key,
			TaskTitle:    is.Summary,
			Reason:       NoReason,
			BlockedSince: is.Updated,
			Owner:        owner,
			Severity:     SeverityOf(is.Priority),
		})
	}
	sort.SliceStable(blockers, func(i, j int) bool {
		return blockers[i].Severity.rank() < blockers[j].Severity.rank()
	})
	return blockers
}

// SeverityOf maps a tracker priority name to a blocker severity.
func SeverityOf(priority string) Severity {
	switch MapPriority(priority) {
	case models.PriorityCritical:
		return SeverityCritical
	case models.PriorityHigh:
		return SeverityHigh
	case models.PriorityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Overall decides project health:
//   - no issues: unknown
//   - any critical blocker, or three or more blockers: at risk
//   - at least 90% complete: on track
//   - at least 70% complete with no blockers: on track
//   - any blocker: at risk
//   - otherwise on track
func Overall(m Metrics, blockers []Blocker) OverallStatus {
	if m.TotalTasks == 0 {
		return StatusUnknown
	}
	critical := 0
	for _, b := range blockers {
		if b.Severity == SeverityCritical {
			critical++
		}
	}
	switch {
	case critical > 0 || len(blockers) >= 3:
		return StatusAtRisk
	case m.CompletionPercentage >= 90:
		return StatusOnTrack
	case m.CompletionPercentage >= 70 && len(blockers) == 0:
		return StatusOnTrack
	case len(blockers) > 0:
		return StatusAtRisk
	default:
		return StatusOnTrack
	}
}

// Demo serves a sample status for any project name. It stands in when no
// tracker is configured.
type Demo struct {
	now func() time.Time
}

// NewDemo returns the demo status source.
func NewDemo() *Demo {
	return &Demo{now: time.Now}
}

// ProjectStatus returns the sample report, renamed to the requested project.
func (d *Demo) ProjectStatus(ctx context.Context, project string) (*ProjectStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if project == "" {
		project = "Phoenix"
	}
	now := d.now()
	sprint := &Sprint{
		ID:        42,
		Name:      project + " Sprint 12",
		State:     "active",
		StartDate: now.AddDate(0, 0, -7).Format(models.DateLayout),
		EndDate:   now.AddDate(0, 0, 7).Format(models.DateLayout),
	}
	status := BuildStatus(Project{ID: "10001", Key: "PHOE", Name: project}, sprint, DemoIssues(project), now)
	status.DataSource = "demo"
	status.DemoMode = true
	return status, nil
}

// DemoIssues is the sample sprint behind Demo.
func DemoIssues(project string) []Issue {
	mk := func(n int, summary, status, priority, assignee string, points float64, labels ...string) Issue {
		return Issue{
			Key:         "PHOE-" + strconv.Itoa(n),
			Summary:     summary,
			Status:      status,
			Priority:    priority,
			Assignee:    assignee,
			StoryPoints: points,
			Labels:      labels,
			Project:     project,
		}
	}
	return []Issue{
		mk(120, "Payment gateway integration", "Done", "High", "Michael Rodriguez", 8),
		mk(121, "Checkout page redesign", "Done", "Medium", "Jessica Wong", 5),
		mk(122, "Fraud rules engine", "Done", "High", "Alex Kumar", 5),
		mk(130, "Refund workflow", "Done", "Medium", "Michael Rodriguez", 3),
		mk(133, "Receipt emails", "Done", "Low", "Jessica Wong", 2),
		mk(140, "Load test payment API", "Done", "Medium", "Alex Kumar", 3),
		mk(145, "Vendor API key provisioning", "In Progress", "High", "Sarah Chen", 3, "blocked", "external-dependency"),
		mk(178, "Review API spec for payment integration", "To Do", "High", "John Doe", 5, "critical-path"),
		mk(189, "Prepare sprint demo slides", "In Progress", "Medium", "John Doe", 3),
		mk(201, "Update user documentation", "To Do", "Low", "", 5),
	}
}
