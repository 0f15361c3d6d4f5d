// Package copilot runs the assistant's workflows.
//
// A request is routed by keyword to one of two pipelines:
//
//   - priority plan: calendar, open tasks, then the planner, rendered as
//     the daily report
//   - status email: project status, stakeholder lookup in the knowledge
//     base, then an email draft
//
// Every step records the tools it called. A collaborator failure is
// recorded as a tool error and the step continues with empty or default
// data; more than MaxToolErrors errors turn the response into an error
// report. Invalid planner input aborts the run.
//
// Example usage:
//
//	cp, err := copilot.New(copilot.RequiredConfig{
//		Tasks:    sources.NewDemo(),
//		Calendar: sources.NewDemo(),
//		Planner:  p,
//	}, copilot.WithLogger(logger))
//	state, err := cp.Run(ctx, copilot.Request{Query: "What should I focus on today?"})
//	fmt.Println(state.Response)
package copilot
