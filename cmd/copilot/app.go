package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/copilot/internal/config"
	"github.com/ShayCichocki/copilot/internal/copilot"
	"github.com/ShayCichocki/copilot/internal/knowledge"
	"github.com/ShayCichocki/copilot/internal/llm"
	"github.com/ShayCichocki/copilot/internal/planner"
	"github.com/ShayCichocki/copilot/internal/sources"
	"github.com/ShayCichocki/copilot/internal/tracker"
	"github.com/ShayCichocki/copilot/pkg/models"
)

// app holds the collaborators wired from configuration.
type app struct {
	cfg       *config.Config
	loc       *time.Location
	tasks     sources.TaskSource
	calendar  sources.CalendarSource
	status    tracker.StatusSource
	planner   *planner.Planner
	knowledge *knowledge.Store
	llm       *llm.Client
	logger    *copilot.DebugLogger
	copilot   *copilot.Copilot
}

// appOptions selects the optional parts of the app.
type appOptions struct {
	// knowledge opens the knowledge base. A failure to open it is reported
	// as a warning and the copilot runs without it.
	knowledge bool
	// model wires the LLM client when credentials are configured.
	model bool
}

// loadApp loads configuration and wires the copilot.
func loadApp(opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(cfg, opts)
}

func newApp(cfg *config.Config, opts appOptions) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hours, err := cfg.WorkHours()
	if err != nil {
		return nil, err
	}
	p, err := planner.New(planner.Config{PrimaryProject: cfg.Planner.PrimaryProject, WorkHours: hours})
	if err != nil {
		return nil, fmt.Errorf("create planner: %w", err)
	}

	a := &app{cfg: cfg, loc: loc, planner: p, logger: copilot.NopLogger()}
	if cfg.Logging.Enabled {
		l, err := copilot.NewDebugLogger(cfg.Logging.Path)
		if err != nil {
			return nil, err
		}
		a.logger = l
	}

	var client *tracker.Client
	if cfg.Tracker.URL != "" {
		client, err = tracker.NewClient(tracker.Config{
			BaseURL:          cfg.Tracker.URL,
			Email:            cfg.Tracker.Email,
			APIToken:         cfg.Tracker.APIToken,
			StoryPointsField: cfg.Tracker.StoryPointsField,
			Timeout:          cfg.Tracker.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create tracker client: %w", err)
		}
	}

	demo := sources.NewDemo()
	switch {
	case cfg.Sources.TasksFile != "":
		a.tasks = sources.NewTaskFile(cfg.Sources.TasksFile)
	case client != nil:
		a.tasks = client
	default:
		a.tasks = demo
	}
	if cfg.Sources.CalendarFile != "" {
		a.calendar = sources.NewCalendarFile(cfg.Sources.CalendarFile, loc)
	} else {
		a.calendar = demo
	}
	if client != nil {
		a.status = tracker.NewReporter(client)
	} else {
		a.status = tracker.NewDemo()
	}

	copts := []copilot.Option{
		copilot.WithStatusSource(a.status),
		copilot.WithLogger(a.logger),
		copilot.WithDefaultProject(cfg.Planner.PrimaryProject),
		copilot.WithPreferences(cfg.Preferences()),
		copilot.WithClock(func() time.Time { return time.Now().In(loc) }),
	}
	if cfg.Tracker.Email != "" {
		copts = append(copts, copilot.WithUserEmail(cfg.Tracker.Email))
	}

	if opts.knowledge {
		store, err := knowledge.Open(cfg.Knowledge.DBPath)
		if err != nil {
			printWarning(fmt.Sprintf("knowledge base unavailable: %v", err))
		} else {
			a.knowledge = store
			copts = append(copts, copilot.WithKnowledge(store))
		}
	}

	if opts.model && config.HasModel(cfg) {
		key, _ := config.GetAPIKey(cfg)
		c, err := llm.NewClient(llm.ClientConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        key,
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
			MaxTokens:     cfg.Anthropic.MaxTokens,
		})
		if err != nil && !errors.Is(err, llm.ErrNoAPIKey) {
			return nil, fmt.Errorf("create model client: %w", err)
		}
		if err == nil {
			a.llm = c
			copts = append(copts,
				copilot.WithIntentParser(llm.NewIntentParser(c, cfg.Planner.PrimaryProject)),
				copilot.WithEmailComposer(llm.NewDrafter(c)),
			)
		}
	}

	a.copilot, err = copilot.New(copilot.RequiredConfig{Tasks: a.tasks, Calendar: a.calendar, Planner: p}, copts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the knowledge base and log file.
func (a *app) Close() error {
	var errs []error
	if a.knowledge != nil {
		errs = append(errs, a.knowledge.Close())
	}
	errs = append(errs, a.logger.Close())
	return errors.Join(errs...)
}

// day parses a --date flag in the configured timezone. Empty means today.
func (a *app) day(date string) (time.Time, error) {
	if date == "" {
		now := time.Now().In(a.loc)
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, a.loc), nil
	}
	t, err := time.ParseInLocation(models.DateLayout, date, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// reportUsage prints token usage when the model was called.
func (a *app) reportUsage() {
	if a.llm == nil || a.llm.Tracker().Calls() == 0 {
		return
	}
	in, out := a.llm.Tracker().Total()
	fmt.Fprintf(os.Stderr, "\nmodel: %d calls, %d input / %d output tokens, ~$%.4f\n",
		a.llm.Tracker().Calls(), in, out, a.llm.Tracker().Cost())
}
