package report

import "strings"

// Problem is one failed step shown in an error report.
type Problem struct {
	Step    string
	Message string
}

// RenderError lists the problems a run hit.
func RenderError(problems []Problem) string {
	var b strings.Builder
	b.WriteString("I encountered some issues while processing your request:\n\n")
	for i, p := range problems {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + orDefault(p.Step, "Unknown") + ": " + orDefault(p.Message, "Unknown error"))
	}
	b.WriteString("\n\nWould you like me to try again or help with something else?")
	return b.String()
}
