package planner

import (
	"fmt"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// TopRanked is how many scored tasks a plan keeps in its ranked list.
const TopRanked = 10

// Assemble composes the final plan. The ranked list is truncated to
// TopRanked entries; schedule and suggestions are kept as given.
func Assemble(
	tasks []models.Task,
	scored []models.ScoredTask,
	schedule []models.ScheduledItem,
	events []models.CalendarEvent,
	blocks []models.FreeBlock,
	suggestions []string,
) models.PriorityPlan {
	high := 0
	for _, t := range scored {
		if t.PriorityScore >= HighPriorityThreshold {
			high++
		}
	}

	free := 0
	for _, b := range blocks {
		free += b.DurationMinutes
	}

	n := len(scored)
	if n > TopRanked {
		n = TopRanked
	}
	ranked := make([]models.ScoredTask, n)
	copy(ranked, scored[:n])

	if schedule == nil {
		schedule = []models.ScheduledItem{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	return models.PriorityPlan{
		RankedTasks: ranked,
		Schedule:    schedule,
		Suggestions: suggestions,
		Summary: models.PlanSummary{
			TotalTasks:        len(tasks),
			HighPriorityCount: high,
			ScheduledTasks:    len(schedule),
			TotalMeetingMins:  MeetingMinutes(events),
			TotalFreeMins:     free,
		},
	}
}

// Config configures a Planner.
type Config struct {
	// PrimaryProject is the project whose tasks get the impact boost.
	PrimaryProject string
	// WorkHours bounds the free time considered each day.
	WorkHours WorkHours
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		PrimaryProject: "Phoenix",
		WorkHours:      DefaultWorkHours(),
	}
}

// Input is everything one planning run needs.
type Input struct {
	// Today is the reference date; its location sets the work window.
	Today       time.Time
	Tasks       []models.Task
	Events      []models.CalendarEvent
	Preferences models.Preferences
}

// Planner runs the full pipeline. It holds only configuration and is safe
// for concurrent use.
type Planner struct {
	scorer *Scorer
	hours  WorkHours
}

// New creates a Planner. Invalid work hours are rejected.
func New(cfg Config) (*Planner, error) {
	if err := cfg.WorkHours.Validate(); err != nil {
		return nil, err
	}
	return &Planner{
		scorer: NewScorer(cfg.PrimaryProject),
		hours:  cfg.WorkHours,
	}, nil
}

// Scorer returns the planner's scorer.
func (p *Planner) Scorer() *Scorer {
	return p.scorer
}

// WorkHours returns the configured work window.
func (p *Planner) WorkHours() WorkHours {
	return p.hours
}

// FreeBlocks computes the free blocks of day within the work window.
func (p *Planner) FreeBlocks(day time.Time, events []models.CalendarEvent) ([]models.FreeBlock, error) {
	start, end := p.hours.Window(day)
	return ComputeFreeBlocks(events, start, end)
}

// Plan runs one planning pass. Empty task or event lists are valid and
// produce an empty schedule; structural violations return a
// *ValidationError and no plan.
func (p *Planner) Plan(in Input) (models.PriorityPlan, error) {
	if err := ValidateTasks(in.Tasks); err != nil {
		return models.PriorityPlan{}, fmt.Errorf("validate tasks: %w", err)
	}
	blocks, err := p.FreeBlocks(in.Today, in.Events)
	if err != nil {
		return models.PriorityPlan{}, fmt.Errorf("compute free blocks: %w", err)
	}

	scored := p.scorer.Rank(in.Tasks, in.Today)
	schedule := Allocate(scored, blocks, in.Preferences)
	suggestions := Suggest(scored, in.Events, schedule, in.Today)

	plan := Assemble(in.Tasks, scored, schedule, in.Events, blocks, suggestions)
	plan.Date = in.Today.Format(models.DateLayout)
	return plan, nil
}
