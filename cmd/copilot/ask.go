package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/copilot"
)

var (
	askDate  string
	askJSON  bool
	askPlain bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the copilot a question",
	Long: `Route a free-text request to the matching workflow.

Requests mentioning priority, plan, schedule or today build the daily plan;
anything else reports project status and drafts an update email.`,
	Example: `  copilot ask "what are my priorities today?"
  copilot ask "send a status update for project Phoenix"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, copilot.Request{Query: strings.Join(args, " ")}, askDate, askJSON, askPlain)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [project]",
	Short: "Report project status and draft the stakeholder email",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := "status update"
		if len(args) == 1 {
			query = "status update for project " + args[0]
		}
		return runQuery(cmd, copilot.Request{Query: query, Workflow: copilot.WorkflowStatusEmail}, "", askJSON, askPlain)
	},
}

func init() {
	askCmd.Flags().StringVar(&askDate, "date", "", "Day to plan (YYYY-MM-DD, default today)")
	for _, c := range []*cobra.Command{askCmd, statusCmd} {
		c.Flags().BoolVar(&askJSON, "json", false, "Print the full run state as JSON")
		c.Flags().BoolVar(&askPlain, "plain", false, "Print raw Markdown without terminal styling")
	}
}

func runQuery(cmd *cobra.Command, req copilot.Request, date string, asJSON, plain bool) error {
	a, err := loadApp(appOptions{knowledge: true, model: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if date != "" {
		if req.Today, err = a.day(date); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	st, err := a.copilot.Run(ctx, req)
	out := cmd.OutOrStdout()
	if asJSON {
		if jerr := printJSON(out, st); jerr != nil {
			return jerr
		}
	} else {
		writeResponse(out, st.Response, plain)
		for _, te := range st.ToolErrors {
			printWarning(fmt.Sprintf("%s: %s", te.Step, te.Error))
		}
	}
	a.reportUsage()
	return err
}
