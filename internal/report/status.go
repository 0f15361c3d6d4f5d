package report

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/copilot/internal/knowledge"
	"github.com/ShayCichocki/copilot/internal/llm"
	"github.com/ShayCichocki/copilot/internal/tracker"
)

// MaxBlockersShown caps the blockers listed in a status report.
const MaxBlockersShown = 5

// NextSteps close every status email report.
var NextSteps = []string{
	"Review and edit the email draft",
	"Send to stakeholders",
	"Address blocking issues",
	"Schedule follow-up",
}

// StatusEmail is everything the status email report shows.
type StatusEmail struct {
	// Status is nil when the project could not be loaded.
	Status *tracker.ProjectStatus
	// StatusError explains a missing Status.
	StatusError string
	// Suggestions are similarly named projects offered when the project was not found.
	Suggestions  []string
	Stakeholders []knowledge.Stakeholder
	// Draft is nil when no email was composed.
	Draft *llm.EmailDraft
}

// RenderStatusEmail renders the project status followed by the email draft.
func RenderStatusEmail(v StatusEmail) string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("# 📊 Project Status & Email Update\n")
	add("## 🚀 Project Status\n")

	if st := v.Status; st != nil {
		if st.DemoMode {
			add("*🎭 Demo Mode: Showing sample data (no tracker configured)*\n")
		}
		add("**Project:** %s", orDefault(st.ProjectName, "Unknown Project"))
		add("**Status:** %s", Title(string(st.Status)))
		add("**Completion:** %s%%", number(st.CompletionPercentage))
		add("**Tasks:** %d/%d completed\n", st.Metrics.CompletedTasks, st.Metrics.TotalTasks)

		if len(st.Blockers) > 0 {
			add("### ⚠️ Blockers\n")
			for i, b := range st.Blockers {
				if i == MaxBlockersShown {
					break
				}
				add("- **%s**: %s (Owner: %s)", strings.ToUpper(string(b.Severity)), b.TaskTitle, b.Owner)
			}
			add("")
		}

		if st.Sprint != nil {
			points := st.Metrics.StoryPoints
			add("### 📅 Current Sprint\n")
			add("**Sprint:** %s", orDefault(st.Sprint.Name, "Current"))
			add("**Progress:** %s/%s points", number(points.Completed), number(points.Total))
			add("")
		}
	} else {
		add("⚠️ Could not retrieve project status")
		add("**Error:** %s", orDefault(v.StatusError, "No data available"))
		if len(v.Suggestions) > 0 {
			add("\n**Available projects:** %s", strings.Join(v.Suggestions, ", "))
		}
		add("")
	}

	add("## 📧 Email Draft\n")
	if d := v.Draft; d != nil {
		if d.Fallback {
			add("⚠️ Email composition encountered an error, showing a fallback draft\n")
		}
		add("**To:** %s", recipientLine(v.Stakeholders))
		add("**Subject:** %s\n", orDefault(d.Subject, "No subject"))
		add("**Body:**")
		add("```")
		add("%s", orDefault(d.Body, "No content"))
		add("```\n")
	} else {
		add("⚠️ No email draft was composed\n")
	}

	add("## ⚡ Next Steps\n")
	for _, s := range NextSteps {
		add("• %s", s)
	}

	return strings.Join(lines, "\n")
}

// recipientLine names up to three people and counts the rest.
func recipientLine(people []knowledge.Stakeholder) string {
	if len(people) == 0 {
		return "Project Stakeholders"
	}
	names := make([]string, 0, 3)
	for i, p := range people {
		if i == 3 {
			break
		}
		names = append(names, p.Name)
	}
	line := strings.Join(names, ", ")
	if extra := len(people) - 3; extra > 0 {
		line += fmt.Sprintf(" and %d others", extra)
	}
	return line
}

// Title turns a snake_case value into title case: "at_risk" -> "At Risk".
func Title(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
