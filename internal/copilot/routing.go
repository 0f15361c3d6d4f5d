package copilot

import "strings"

// Workflow names a request pipeline.
type Workflow string

const (
	// WorkflowPriorityPlan builds the day's prioritized schedule.
	WorkflowPriorityPlan Workflow = "priority_plan"
	// WorkflowStatusEmail reports project status and drafts an update email.
	WorkflowStatusEmail Workflow = "status_email"
)

// PlanKeywords route a request to the priority plan workflow. Anything
// else goes to the status email workflow.
var PlanKeywords = []string{
	"priority",
	"plan",
	"schedule",
	"today",
}

// Route picks the workflow for a request by case-insensitive substring match.
func Route(query string) Workflow {
	q := strings.ToLower(query)
	for _, kw := range PlanKeywords {
		if strings.Contains(q, kw) {
			return WorkflowPriorityPlan
		}
	}
	return WorkflowStatusEmail
}
