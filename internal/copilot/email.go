package copilot

import (
	"fmt"
	"strconv"

	"github.com/ShayCichocki/copilot/internal/knowledge"
	"github.com/ShayCichocki/copilot/internal/llm"
	"github.com/ShayCichocki/copilot/internal/report"
	"github.com/ShayCichocki/copilot/internal/tracker"
)

// MaxBlockerPoints caps the blockers listed in an email's key points.
const MaxBlockerPoints = 3

// StatusEmailRequest builds the update email for a project. A nil status
// produces a request that says the status is unavailable.
func StatusEmailRequest(status *tracker.ProjectStatus, people []knowledge.Stakeholder) llm.EmailRequest {
	name := "project"
	tone := llm.ToneFormal
	if status != nil {
		if status.ProjectName != "" {
			name = status.ProjectName
		}
		if status.Status == tracker.StatusAtRisk {
			tone = llm.ToneUrgent
		}
	}

	recipients := make([]llm.Recipient, 0, MaxRecipients)
	for i, p := range people {
		if i == MaxRecipients {
			break
		}
		recipients = append(recipients, llm.Recipient{Name: p.Name, Email: p.Email, Role: "Stakeholder"})
	}

	return llm.EmailRequest{
		Purpose:            "Weekly status update for " + name,
		KeyPoints:          KeyPoints(status),
		Recipients:         recipients,
		Tone:               tone,
		IncludeActionItems: true,
	}
}

// KeyPoints summarizes a status report for an email.
func KeyPoints(status *tracker.ProjectStatus) []string {
	if status == nil {
		return []string{"Project status could not be retrieved"}
	}
	m := status.Metrics
	points := []string{
		fmt.Sprintf("Project is %s%% complete (%d of %d tasks done)",
			strconv.FormatFloat(status.CompletionPercentage, 'f', -1, 64), m.CompletedTasks, m.TotalTasks),
		"Status: " + report.Title(string(status.Status)),
	}
	if n := len(status.Blockers); n > 0 {
		noun := "issues"
		if n == 1 {
			noun = "issue"
		}
		points = append(points, fmt.Sprintf("%d blocking %s identified", n, noun))
		for i, b := range status.Blockers {
			if i == MaxBlockerPoints {
				break
			}
			points = append(points, fmt.Sprintf("%s blocker: %s (owner: %s)", report.Title(string(b.Severity)), b.TaskTitle, b.Owner))
		}
	}
	if status.Sprint != nil {
		points = append(points, fmt.Sprintf("Sprint %s: in progress", status.Sprint.Name))
	}
	return points
}
