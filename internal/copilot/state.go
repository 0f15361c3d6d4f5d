package copilot

import (
	"time"

	"github.com/ShayCichocki/copilot/internal/knowledge"
	"github.com/ShayCichocki/copilot/internal/llm"
	"github.com/ShayCichocki/copilot/internal/report"
	"github.com/ShayCichocki/copilot/internal/tracker"
	"github.com/ShayCichocki/copilot/pkg/models"
)

// Step names, in the order the workflows run them.
const (
	StepParseIntent        = "parse_intent"
	StepGetCalendar        = "get_calendar_data"
	StepGetTasks           = "get_user_tasks"
	StepCreatePlan         = "create_priority_plan"
	StepFetchStatus        = "fetch_project_status"
	StepSearchStakeholders = "search_stakeholders"
	StepComposeEmail       = "compose_email"
	StepPlanResponse       = "generate_plan_response"
	StepStatusResponse     = "generate_email_status_response"
	StepHandleError        = "handle_error"
)

// Tool names recorded in State.ToolsCalled.
const (
	ToolIntent        = "parse_intent"
	ToolCalendar      = "manage_calendar"
	ToolTasks         = "manage_tasks"
	ToolPlanner       = "create_priority_plan"
	ToolProjectStatus = "get_project_status"
	ToolKnowledge     = "knowledge_search"
	ToolEmail         = "compose_email"
)

// MaxToolErrors is how many tool errors a run tolerates before it answers
// with the error report instead of its normal response.
const MaxToolErrors = 2

// ToolError records a failed step. The run continues with fallback data.
type ToolError struct {
	Step  string `json:"step"`
	Tool  string `json:"tool,omitempty"`
	Error string `json:"error"`
}

// State is the record of one run, filled in step by step.
type State struct {
	WorkflowID string    `json:"workflow_id"`
	Workflow   Workflow  `json:"workflow"`
	Query      string    `json:"query"`
	UserEmail  string    `json:"user_email"`
	Today      time.Time `json:"today"`
	// Step is the last step that ran.
	Step        string      `json:"step"`
	ToolsCalled []string    `json:"tools_called"`
	ToolErrors  []ToolError `json:"tool_errors"`

	Intent *llm.Intent `json:"intent,omitempty"`

	Events []models.CalendarEvent `json:"events,omitempty"`
	Tasks  []models.Task          `json:"tasks,omitempty"`
	Plan   *models.PriorityPlan   `json:"priority_plan,omitempty"`

	ProjectStatus      *tracker.ProjectStatus  `json:"project_status,omitempty"`
	ProjectSuggestions []string                `json:"project_suggestions,omitempty"`
	Stakeholders       []knowledge.Stakeholder `json:"stakeholders,omitempty"`
	Email              *llm.EmailDraft         `json:"email_draft,omitempty"`

	Response   string    `json:"response"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (s *State) called(tool string) {
	s.ToolsCalled = append(s.ToolsCalled, tool)
}

func (s *State) fail(step, tool string, err error) {
	s.ToolErrors = append(s.ToolErrors, ToolError{Step: step, Tool: tool, Error: err.Error()})
	debugLog("[%s] %s failed: %v", s.WorkflowID, step, err)
}

// tooManyErrors reports whether the run should end in the error handler.
func (s *State) tooManyErrors() bool {
	return len(s.ToolErrors) > MaxToolErrors
}

// statusError returns the first error recorded by the status step.
func (s *State) statusError() string {
	for _, e := range s.ToolErrors {
		if e.Step == StepFetchStatus {
			return e.Error
		}
	}
	return ""
}

func (s *State) problems() []report.Problem {
	out := make([]report.Problem, len(s.ToolErrors))
	for i, e := range s.ToolErrors {
		out[i] = report.Problem{Step: e.Step, Message: e.Error}
	}
	return out
}
