package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/copilot"
	"github.com/ShayCichocki/copilot/internal/planner"
	"github.com/ShayCichocki/copilot/internal/report"
	"github.com/ShayCichocki/copilot/internal/sources"
)

var (
	planDate  string
	planJSON  bool
	planPlain bool
	planWatch bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build today's priority plan",
	Long: `Score your open tasks, find the free time between meetings and
fit the most important work into it.

Tasks come from sources.tasks_file, Jira (tracker.url) or demo data;
meetings come from sources.calendar_file or demo data.

With --watch, the plan is rebuilt whenever a fixture file changes.`,
	Example: `  copilot plan
  copilot plan --date 2026-02-11 --json
  copilot plan --watch`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planDate, "date", "", "Day to plan (YYYY-MM-DD, default today)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plan as JSON")
	planCmd.Flags().BoolVar(&planPlain, "plain", false, "Print raw Markdown without terminal styling")
	planCmd.Flags().BoolVar(&planWatch, "watch", false, "Rebuild the plan when fixture files change")
}

func runPlan(cmd *cobra.Command, args []string) error {
	a, err := loadApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := a.day(planDate)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	if err := planOnce(ctx, a, day, out); err != nil && !planWatch {
		return err
	}
	if !planWatch {
		return nil
	}
	return watchPlan(ctx, a, day, out)
}

func planOnce(ctx context.Context, a *app, day time.Time, out io.Writer) error {
	st, err := a.copilot.Run(ctx, copilot.Request{Today: day, Workflow: copilot.WorkflowPriorityPlan})
	if planJSON && st.Plan != nil {
		if jerr := printJSON(out, st.Plan); jerr != nil {
			return jerr
		}
	} else {
		writeResponse(out, st.Response, planPlain)
	}
	for _, te := range st.ToolErrors {
		printWarning(fmt.Sprintf("%s: %s", te.Step, te.Error))
	}
	if planner.IsValidation(err) {
		return fmt.Errorf("cannot plan %s: %w", day.Format("2006-01-02"), err)
	}
	return err
}

func watchPlan(ctx context.Context, a *app, day time.Time, out io.Writer) error {
	var paths []string
	for _, p := range []string{a.cfg.Sources.TasksFile, a.cfg.Sources.CalendarFile} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("--watch needs sources.tasks_file or sources.calendar_file")
	}

	w, err := sources.NewWatcher(paths...)
	if err != nil {
		return err
	}
	defer w.Close()

	printStatus(out, "👀", fmt.Sprintf("Watching %d file(s); press Ctrl+C to stop", len(paths)), color.FgCyan)
	w.Run(ctx,
		func(path string) {
			printStatus(out, "↻", path+" changed, replanning", color.FgCyan)
			if err := planOnce(ctx, a, day, out); err != nil {
				printWarning(err.Error())
			}
		},
		func(err error) { printWarning(fmt.Sprintf("watch: %v", err)) },
	)
	return nil
}

// writeResponse prints Markdown, styled when stdout is a terminal.
func writeResponse(out io.Writer, markdown string, plain bool) {
	if !plain && !noColor && isTerminal() {
		markdown = report.Styled(markdown)
	}
	fmt.Fprintln(out, markdown)
}
