package planner

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// Composite weights. They sum to 1 so the priority score stays in [0, 100].
const (
	weightUrgency  = 0.40
	weightImpact   = 0.30
	weightDeadline = 0.20
	weightContext  = 0.10
)

// HighPriorityThreshold is the priority score at or above which a task
// counts as high priority.
const HighPriorityThreshold = 80.0

// Labels with scoring effect.
const (
	LabelCriticalPath       = "critical-path"
	LabelBlocker            = "blocker"
	LabelExternalDependency = "external-dependency"
)

var urgencyBase = map[models.PriorityTag]float64{
	models.PriorityCritical: 100,
	models.PriorityHigh:     75,
	models.PriorityMedium:   50,
	models.PriorityLow:      25,
}

// Scorer computes priority scores. The zero value gives no project boost.
type Scorer struct {
	// PrimaryProject receives the impact boost. Empty disables the boost.
	PrimaryProject string
}

// NewScorer returns a scorer that boosts tasks of the named project.
func NewScorer(primaryProject string) *Scorer {
	return &Scorer{PrimaryProject: primaryProject}
}

// Score computes the sub-scores and composite for one task as of today.
// The input is copied, never modified.
func (s *Scorer) Score(task models.Task, today time.Time) models.ScoredTask {
	urgency := Urgency(task)
	impact := s.Impact(task)
	deadline := DeadlineScore(task, today)
	context := ContextScore(task)

	composite := urgency*weightUrgency +
		impact*weightImpact +
		deadline*weightDeadline +
		context*weightContext

	labels := task.Labels
	if labels != nil {
		labels = append([]string(nil), labels...)
	}
	task.Labels = labels

	return models.ScoredTask{
		Task:          task,
		Urgency:       urgency,
		Impact:        impact,
		DeadlineScore: deadline,
		Context:       context,
		PriorityScore: round1(composite),
	}
}

// Rank scores every task and orders them by priority score, highest first.
// Equal scores keep their input order.
func (s *Scorer) Rank(tasks []models.Task, today time.Time) []models.ScoredTask {
	scored := make([]models.ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		scored = append(scored, s.Score(t, today))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})
	return scored
}

// Urgency scores the priority tag, boosted for blocked and critical-path work.
func Urgency(task models.Task) float64 {
	score, ok := urgencyBase[task.Priority]
	if !ok {
		score = urgencyBase[models.PriorityMedium]
	}
	if task.Blocked {
		score = math.Min(100, score+15)
	}
	if task.HasLabel(LabelCriticalPath) {
		score = math.Min(100, score+10)
	}
	return clamp(score)
}

// Impact scores project importance, size and dependency labels.
func (s *Scorer) Impact(task models.Task) float64 {
	score := 50.0
	if s.PrimaryProject != "" && task.Project == s.PrimaryProject {
		score += 20
	}
	switch {
	case task.StoryPoints >= 5:
		score += 15
	case task.StoryPoints >= 3:
		score += 10
	}
	if task.HasLabel(LabelBlocker) {
		score += 20
	}
	if task.HasLabel(LabelExternalDependency) {
		score += 10
	}
	return clamp(score)
}

// DeadlineScore scores proximity of the due date. Tasks with no due date,
// or one that cannot be parsed, score 50.
func DeadlineScore(task models.Task, today time.Time) float64 {
	due, ok := task.Due()
	if !ok {
		return 50
	}
	days := DaysBetween(today, due)

	switch {
	case days <= 0:
		return 100
	case days == 1:
		return 90
	case days <= 3:
		return 75
	case days <= 7:
		return 60
	default:
		return clamp(math.Max(30, 100-3*float64(days)))
	}
}

// ContextScore scores momentum (in progress) and blockers.
func ContextScore(task models.Task) float64 {
	score := 50.0
	if task.Status == models.TaskStatusInProgress {
		score += 30
	}
	if task.Blocked {
		score += 20
	}
	return clamp(score)
}

// DaysBetween returns the whole calendar days from today to due. Negative
// when due is in the past.
func DaysBetween(today, due time.Time) int {
	from := models.DateOf(today)
	to := models.DateOf(due)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// ValidateTasks checks identifier uniqueness and estimate sign.
// Missing fields are not errors; they fall back to defaults when scored.
func ValidateTasks(tasks []models.Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return &ValidationError{Field: "task", Reason: fmt.Sprintf("task %q has no identifier", t.Title)}
		}
		if seen[t.ID] {
			return &ValidationError{Field: "task", ID: t.ID, Reason: "duplicate identifier"}
		}
		seen[t.ID] = true
		if t.EstimatedHours < 0 {
			return &ValidationError{Field: "task", ID: t.ID, Reason: fmt.Sprintf("negative estimate %.2fh", t.EstimatedHours)}
		}
	}
	return nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
