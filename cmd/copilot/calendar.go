package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/planner"
)

var (
	calendarDate string
	calendarJSON bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show meetings and free time for a day",
	Example: `  copilot calendar
  copilot calendar --date 2026-02-11 --json`,
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calendarDate, "date", "", "Day to check (YYYY-MM-DD, default today)")
	calendarCmd.Flags().BoolVar(&calendarJSON, "json", false, "Print availability as JSON")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a, err := loadApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := a.day(calendarDate)
	if err != nil {
		return err
	}
	events, err := a.calendar.Events(context.Background(), day)
	if err != nil {
		return fmt.Errorf("get calendar: %w", err)
	}
	avail, err := planner.Availability(day, events, a.planner.WorkHours())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if calendarJSON {
		return printJSON(out, avail)
	}

	fmt.Fprintf(out, "%s (%s work hours)\n\n", day.Format("Monday, January 02, 2006"), a.planner.WorkHours())
	if len(avail.BusyPeriods) == 0 {
		printStatus(out, "✓", "No meetings", color.FgGreen)
	}
	for _, b := range avail.BusyPeriods {
		printStatus(out, "📞", fmt.Sprintf("%s-%s  %s", b.Start.Format("15:04"), b.End.Format("15:04"), b.Title), color.FgYellow)
	}
	fmt.Fprintln(out)
	if !avail.IsAvailable {
		printStatus(out, "✗", "No free time in the work window", color.FgRed)
		return nil
	}
	for _, fb := range avail.FreeBlocks {
		printStatus(out, "🎯", fmt.Sprintf("%s-%s  free (%s)", fb.Start.Format("15:04"), fb.End.Format("15:04"), planner.FormatMinutes(fb.DurationMinutes)), color.FgGreen)
	}
	return nil
}
