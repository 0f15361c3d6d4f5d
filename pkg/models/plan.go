package models

import "time"

// BlockType tags a scheduled item with the kind of focus its slot allows.
type BlockType string

const (
	// BlockTypeDeepWork marks items placed in a free block of 90+ minutes.
	BlockTypeDeepWork BlockType = "deep_work"
	// BlockTypeFocusedTask marks every other scheduled item.
	BlockTypeFocusedTask BlockType = "focused_task"
)

// Label returns a human-readable title for the block type.
func (b BlockType) Label() string {
	switch b {
	case BlockTypeDeepWork:
		return "Deep Work"
	case BlockTypeFocusedTask:
		return "Focused Task"
	default:
		return string(b)
	}
}

// ScheduledItem is a task bound to a sub-interval of a free block.
type ScheduledItem struct {
	TaskID        string    `json:"task_id"`
	TaskTitle     string    `json:"task_title"`
	PriorityScore float64   `json:"priority_score"`
	Start         time.Time `json:"start_time"`
	End           time.Time `json:"end_time"`
	// DurationMinutes equals the task estimate in minutes and may be fractional.
	DurationMinutes float64   `json:"duration_minutes"`
	BlockType       BlockType `json:"block_type"`
}

// Preferences tune the allocator.
type Preferences struct {
	// MorningFocus reserves blocks starting before noon for tasks scoring 80+.
	MorningFocus bool `json:"morning_focus" yaml:"morning_focus" mapstructure:"morning_focus"`
	// PreferLongBlocks is accepted for compatibility but does not affect allocation.
	PreferLongBlocks bool `json:"prefer_long_blocks" yaml:"prefer_long_blocks" mapstructure:"prefer_long_blocks"`
}

// DefaultPreferences returns the preferences used when the user sets none.
func DefaultPreferences() Preferences {
	return Preferences{MorningFocus: true, PreferLongBlocks: true}
}

// PlanSummary holds the plan's counts and minute totals.
type PlanSummary struct {
	TotalTasks        int `json:"total_tasks"`
	HighPriorityCount int `json:"high_priority_count"`
	ScheduledTasks    int `json:"scheduled_tasks"`
	TotalMeetingMins  int `json:"total_meeting_time"`
	TotalFreeMins     int `json:"total_free_time"`
}

// PriorityPlan is the result of one planning run. Read-only once returned.
type PriorityPlan struct {
	// Date is the planned calendar day (YYYY-MM-DD).
	Date string `json:"date"`
	// RankedTasks holds at most the top ten scored tasks.
	RankedTasks []ScoredTask `json:"prioritized_tasks"`
	// Schedule is in allocation order (largest block first), not time order.
	Schedule    []ScheduledItem `json:"schedule"`
	Suggestions []string        `json:"suggestions"`
	Summary     PlanSummary     `json:"summary"`
}
