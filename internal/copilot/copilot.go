package copilot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShayCichocki/copilot/internal/knowledge"
	"github.com/ShayCichocki/copilot/internal/llm"
	"github.com/ShayCichocki/copilot/internal/planner"
	"github.com/ShayCichocki/copilot/internal/report"
	"github.com/ShayCichocki/copilot/internal/sources"
	"github.com/ShayCichocki/copilot/internal/tracker"
	"github.com/ShayCichocki/copilot/pkg/models"
)

// StakeholderTopK is how many documents the stakeholder search reads.
const StakeholderTopK = 3

// MaxRecipients caps the people a status email is addressed to.
const MaxRecipients = 4

// Request is one user request.
type Request struct {
	Query string `json:"query"`
	// UserEmail selects whose tasks are planned. Empty uses the default user.
	UserEmail string `json:"user_email,omitempty"`
	// Today is the day to plan. Zero uses the copilot's clock.
	Today time.Time `json:"today,omitempty"`
	// Preferences override the default allocation preferences.
	Preferences *models.Preferences `json:"preferences,omitempty"`
	// Workflow forces a pipeline. Empty routes by keyword.
	Workflow Workflow `json:"workflow,omitempty"`
}

// Copilot runs requests through the planning and status workflows.
// It is safe for concurrent use if its collaborators are.
type Copilot struct {
	tasks    sources.TaskSource
	calendar sources.CalendarSource
	planner  *planner.Planner
	opts     options
}

// New creates a Copilot.
func New(req RequiredConfig, opts ...Option) (*Copilot, error) {
	if req.Tasks == nil || req.Calendar == nil || req.Planner == nil {
		return nil, errors.New("copilot requires a task source, a calendar source and a planner")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NopLogger()
	}
	SetPackageLogger(o.logger)
	return &Copilot{tasks: req.Tasks, calendar: req.Calendar, planner: req.Planner, opts: o}, nil
}

// Ask routes a free-text question.
func (c *Copilot) Ask(ctx context.Context, query string) (*State, error) {
	return c.Run(ctx, Request{Query: query})
}

// Run executes one request. The returned state is always non-nil and
// carries the rendered response. The error is non-nil only when the
// planner rejected its input or ctx ended.
func (c *Copilot) Run(ctx context.Context, req Request) (*State, error) {
	today := req.Today
	if today.IsZero() {
		today = c.opts.clock()
	}
	workflow := req.Workflow
	if workflow == "" {
		workflow = Route(req.Query)
	}
	userEmail := req.UserEmail
	if userEmail == "" {
		userEmail = c.opts.userEmail
	}
	prefs := c.opts.prefs
	if req.Preferences != nil {
		prefs = *req.Preferences
	}

	st := &State{
		WorkflowID:  c.opts.newID(),
		Workflow:    workflow,
		Query:       req.Query,
		UserEmail:   userEmail,
		Today:       today,
		Step:        "start",
		ToolsCalled: []string{},
		ToolErrors:  []ToolError{},
		StartedAt:   time.Now(),
	}
	c.opts.logger.Log("[%s] running %s workflow for %q (today %s)", st.WorkflowID, workflow, req.Query, today.Format(models.DateLayout))

	var err error
	switch workflow {
	case WorkflowPriorityPlan:
		err = c.runPriorityPlan(ctx, st, prefs)
	case WorkflowStatusEmail:
		c.runStatusEmail(ctx, st)
	default:
		err = fmt.Errorf("unknown workflow %q", workflow)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		st.fail(st.Step, "", err)
		st.Step = StepHandleError
		st.Response = report.RenderError(st.problems())
	}

	st.FinishedAt = time.Now()
	c.opts.logger.Log("[%s] finished at step %s: %d tools called, %d errors, took %v",
		st.WorkflowID, st.Step, len(st.ToolsCalled), len(st.ToolErrors), st.FinishedAt.Sub(st.StartedAt))
	return st, err
}

func (c *Copilot) runPriorityPlan(ctx context.Context, st *State, prefs models.Preferences) error {
	c.parseIntent(ctx, st)
	log := c.opts.logger

	st.Step = StepGetCalendar
	st.called(ToolCalendar)
	events, err := c.calendar.Events(ctx, st.Today)
	if err != nil {
		st.fail(StepGetCalendar, ToolCalendar, err)
		events = []models.CalendarEvent{}
	}
	st.Events = events
	log.Log("[%s] retrieved %d calendar events", st.WorkflowID, len(events))

	st.Step = StepGetTasks
	st.called(ToolTasks)
	tasks, err := c.tasks.Tasks(ctx, sources.Query{
		UserEmail: st.UserEmail,
		Today:     st.Today,
		Filter:    sources.ActiveFilter(),
		SortBy:    sources.SortByDueDate,
	})
	if err != nil {
		st.fail(StepGetTasks, ToolTasks, err)
		tasks = []models.Task{}
	}
	st.Tasks = tasks
	log.Log("[%s] retrieved %d open tasks", st.WorkflowID, len(tasks))

	if len(tasks) == 0 {
		log.Log("[%s] WARNING: no tasks to plan", st.WorkflowID)
	}
	if len(events) == 0 {
		log.Log("[%s] WARNING: no calendar events", st.WorkflowID)
	}

	st.Step = StepCreatePlan
	st.called(ToolPlanner)
	plan, err := c.planner.Plan(planner.Input{
		Today:       st.Today,
		Tasks:       tasks,
		Events:      events,
		Preferences: prefs,
	})
	if err != nil {
		return fmt.Errorf("create priority plan: %w", err)
	}
	st.Plan = &plan
	if plan.Summary.TotalFreeMins == 0 {
		log.Log("[%s] WARNING: no free blocks in the work window", st.WorkflowID)
	}
	log.Log("[%s] planned %d of %d tasks, %d suggestions",
		st.WorkflowID, plan.Summary.ScheduledTasks, plan.Summary.TotalTasks, len(plan.Suggestions))

	if st.tooManyErrors() {
		c.handleError(st)
		return nil
	}
	st.Step = StepPlanResponse
	st.Response = report.RenderPlan(plan, events, st.Today)
	return nil
}

func (c *Copilot) runStatusEmail(ctx context.Context, st *State) {
	intent := c.parseIntent(ctx, st)
	project := intent.Project()
	if intent.Fallback || project == "" {
		if named := projectFromQuery(st.Query); named != "" {
			project = named
		}
	}
	if project == "" {
		project = c.opts.defaultProject
	}

	st.Step = StepFetchStatus
	st.called(ToolProjectStatus)
	status, err := c.opts.status.ProjectStatus(ctx, project)
	if err != nil {
		var nf *tracker.NotFoundError
		if errors.As(err, &nf) {
			st.ProjectSuggestions = nf.Suggestions
		}
		st.fail(StepFetchStatus, ToolProjectStatus, err)
	} else {
		st.ProjectStatus = status
		c.opts.logger.Log("[%s] project %s is %s", st.WorkflowID, status.ProjectName, status.Status)
	}

	name := project
	if status != nil && status.ProjectName != "" {
		name = status.ProjectName
	}
	st.Stakeholders = c.searchStakeholders(ctx, st, name)

	st.Step = StepComposeEmail
	st.called(ToolEmail)
	draft, err := c.opts.email.Draft(ctx, StatusEmailRequest(st.ProjectStatus, st.Stakeholders))
	if err != nil {
		st.fail(StepComposeEmail, ToolEmail, err)
	}
	st.Email = &draft

	if st.tooManyErrors() {
		c.handleError(st)
		return
	}
	st.Step = StepStatusResponse
	st.Response = report.RenderStatusEmail(report.StatusEmail{
		Status:       st.ProjectStatus,
		StatusError:  st.statusError(),
		Suggestions:  st.ProjectSuggestions,
		Stakeholders: st.Stakeholders,
		Draft:        st.Email,
	})
}

// parseIntent records the request's intent. Without an intent reader
// the fallback intent is used and no tool is called.
func (c *Copilot) parseIntent(ctx context.Context, st *State) llm.Intent {
	st.Step = StepParseIntent
	if c.opts.intents == nil {
		intent := llm.FallbackIntent(c.opts.defaultProject)
		st.Intent = &intent
		return intent
	}
	st.called(ToolIntent)
	intent, err := c.opts.intents.Parse(ctx, st.Query)
	if err != nil {
		st.fail(StepParseIntent, ToolIntent, err)
	}
	st.Intent = &intent
	c.opts.logger.Log("[%s] intent %s (confidence %.2f)", st.WorkflowID, intent.Intent, intent.Confidence)
	return intent
}

func (c *Copilot) searchStakeholders(ctx context.Context, st *State, project string) []knowledge.Stakeholder {
	st.Step = StepSearchStakeholders
	if c.opts.knowledge == nil {
		return knowledge.DefaultStakeholders()
	}
	st.called(ToolKnowledge)
	results, err := c.opts.knowledge.Search(ctx, project+" stakeholders team members", knowledge.SearchOptions{
		TopK:    StakeholderTopK,
		Project: knowledge.ProjectTag(project),
	})
	if err != nil {
		st.fail(StepSearchStakeholders, ToolKnowledge, err)
		return knowledge.DefaultStakeholders()
	}
	people := knowledge.ExtractStakeholders(knowledge.Documents(results))
	c.opts.logger.Log("[%s] found %d stakeholders in %d documents", st.WorkflowID, len(people), len(results))
	return people
}

func (c *Copilot) handleError(st *State) {
	st.Step = StepHandleError
	st.Response = report.RenderError(st.problems())
}

// projectFromQuery returns the word after "project" in a request such as
// "status of project Atlas", or "" if there is none.
func projectFromQuery(query string) string {
	words := strings.Fields(query)
	for i := 0; i+1 < len(words); i++ {
		if strings.EqualFold(strings.Trim(words[i], ".,:;!?"), "project") {
			return strings.Trim(words[i+1], ".,:;!?'\"")
		}
	}
	return ""
}
