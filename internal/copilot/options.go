package copilot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/copilot/internal/knowledge"
	"github.com/ShayCichocki/copilot/internal/llm"
	"github.com/ShayCichocki/copilot/internal/planner"
	"github.com/ShayCichocki/copilot/internal/sources"
	"github.com/ShayCichocki/copilot/internal/tracker"
	"github.com/ShayCichocki/copilot/pkg/models"
)

// IntentReader classifies a request. *llm.IntentParser implements it.
type IntentReader interface {
	Parse(ctx context.Context, query string) (llm.Intent, error)
}

// EmailComposer drafts emails. *llm.Drafter and llm.TemplateDrafter implement it.
type EmailComposer interface {
	Draft(ctx context.Context, req llm.EmailRequest) (llm.EmailDraft, error)
}

// KnowledgeSearcher finds documents. *knowledge.Store implements it.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, opts knowledge.SearchOptions) ([]knowledge.Result, error)
}

// RequiredConfig contains the collaborators every Copilot needs.
type RequiredConfig struct {
	Tasks    sources.TaskSource
	Calendar sources.CalendarSource
	Planner  *planner.Planner
}

// Option configures a Copilot. Use With* functions to create Options.
type Option func(*options)

type options struct {
	status         tracker.StatusSource
	knowledge      KnowledgeSearcher
	intents        IntentReader
	email          EmailComposer
	logger         *DebugLogger
	defaultProject string
	userEmail      string
	prefs          models.Preferences
	clock          func() time.Time
	newID          func() string
}

func defaultOptions() options {
	return options{
		status:         tracker.NewDemo(),
		email:          llm.TemplateDrafter{},
		logger:         NopLogger(),
		defaultProject: "Phoenix",
		userEmail:      sources.DefaultUserEmail,
		prefs:          models.DefaultPreferences(),
		clock:          time.Now,
		newID:          func() string { return uuid.New().String() },
	}
}

// WithStatusSource sets where project status comes from. The built-in
// demo report is used otherwise.
func WithStatusSource(s tracker.StatusSource) Option {
	return func(o *options) { o.status = s }
}

// WithKnowledge sets the knowledge base searched for stakeholders.
// Without one the default stakeholders are addressed.
func WithKnowledge(k KnowledgeSearcher) Option {
	return func(o *options) { o.knowledge = k }
}

// WithIntentParser sets the model-backed intent reader. Without one every
// request gets the fallback intent.
func WithIntentParser(r IntentReader) Option {
	return func(o *options) { o.intents = r }
}

// WithEmailComposer sets the email drafter. The template drafter is used otherwise.
func WithEmailComposer(e EmailComposer) Option {
	return func(o *options) { o.email = e }
}

// WithLogger sets the debug logger. It also becomes the package logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithDefaultProject sets the project reported on when a request names none.
func WithDefaultProject(name string) Option {
	return func(o *options) { o.defaultProject = name }
}

// WithUserEmail sets the user whose tasks are planned when a request names none.
func WithUserEmail(email string) Option {
	return func(o *options) { o.userEmail = email }
}

// WithPreferences sets the default allocation preferences.
func WithPreferences(p models.Preferences) Option {
	return func(o *options) { o.prefs = p }
}

// WithClock sets the source of "today" for requests that carry none.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithIDGenerator sets how workflow IDs are made.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}
