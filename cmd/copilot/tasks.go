package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/sources"
	"github.com/ShayCichocki/copilot/pkg/models"
)

var (
	tasksStatus    []string
	tasksPriority  string
	tasksProject   string
	tasksDueBefore string
	tasksSort      string
	tasksUser      string
	tasksScore     bool
	tasksJSON      bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks from the configured task source",
	Example: `  copilot tasks --status todo,in_progress --sort priority
  copilot tasks --project Phoenix --due-before 2026-02-14 --score`,
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().StringSliceVar(&tasksStatus, "status", nil, "Statuses to include (todo, in_progress, done, blocked)")
	tasksCmd.Flags().StringVar(&tasksPriority, "priority", "", "Only this priority (critical, high, medium, low)")
	tasksCmd.Flags().StringVar(&tasksProject, "project", "", "Only this project")
	tasksCmd.Flags().StringVar(&tasksDueBefore, "due-before", "", "Only tasks due on or before this date (YYYY-MM-DD)")
	tasksCmd.Flags().StringVar(&tasksSort, "sort", string(sources.SortByDueDate), "Sort by due_date, priority or created_date")
	tasksCmd.Flags().StringVar(&tasksUser, "user", "", "Assignee email (default: tracker.email or the demo user)")
	tasksCmd.Flags().BoolVar(&tasksScore, "score", false, "Show the priority score of each task")
	tasksCmd.Flags().BoolVar(&tasksJSON, "json", false, "Print tasks as JSON")
}

// taskQuery builds the source query from flags.
func taskQuery(a *app) (sources.Query, error) {
	q := sources.Query{UserEmail: tasksUser, SortBy: sources.SortKey(tasksSort)}
	switch q.SortBy {
	case sources.SortByDueDate, sources.SortByPriority, sources.SortByCreatedDate, sources.SortNone:
	default:
		return q, fmt.Errorf("invalid --sort %q", tasksSort)
	}
	if q.UserEmail == "" {
		q.UserEmail = a.cfg.Tracker.Email
	}
	for _, s := range tasksStatus {
		q.Filter.Statuses = append(q.Filter.Statuses, models.TaskStatus(strings.ToLower(strings.TrimSpace(s))))
	}
	q.Filter.Priority = models.PriorityTag(strings.ToLower(tasksPriority))
	q.Filter.Project = tasksProject
	q.Filter.DueBefore = tasksDueBefore
	return q, nil
}

func runTasks(cmd *cobra.Command, args []string) error {
	a, err := loadApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := taskQuery(a)
	if err != nil {
		return err
	}
	if q.Today, err = a.day(""); err != nil {
		return err
	}

	tasks, err := a.tasks.Tasks(context.Background(), q)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	out := cmd.OutOrStdout()
	if tasksJSON {
		return printJSON(out, tasks)
	}
	if len(tasks) == 0 {
		printStatus(out, "✓", "No matching tasks", color.FgGreen)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "ID\tPRIORITY\tSTATUS\tDUE\tPROJECT\tTITLE"
	if tasksScore {
		header = "ID\tSCORE\tPRIORITY\tSTATUS\tDUE\tPROJECT\tTITLE"
	}
	fmt.Fprintln(tw, header)
	scorer := a.planner.Scorer()
	for _, t := range tasks {
		title := t.Title
		if t.Blocked {
			title = color.RedString("[blocked] ") + title
		}
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		if tasksScore {
			fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\t%s\t%s\t%s\n", t.ID, scorer.Score(t, q.Today).PriorityScore, t.Priority, t.Status, due, t.Project, title)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Priority, t.Status, due, t.Project, title)
		}
	}
	return tw.Flush()
}
