package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "copilot",
	Short: "Personal work copilot: daily priority plans and project status emails",
	Long: `Copilot plans your day and keeps stakeholders informed.

With no arguments, launches the chat console where you can ask for today's
priorities or a project status email.

Core capabilities:
- Scores open tasks and fits them into the free time between meetings
- Suggests how to use the day (deep work, overload, blockers)
- Reports project status from Jira (or demo data)
- Finds stakeholders in the knowledge base and drafts the update email
- Serves the same workflows over an authenticated HTTP API`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
