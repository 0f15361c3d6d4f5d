package report

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/copilot/internal/knowledge"
	"github.com/ShayCichocki/copilot/internal/llm"
	"github.com/ShayCichocki/copilot/internal/tracker"
)

func sampleStatus() *tracker.ProjectStatus {
	return &tracker.ProjectStatus{
		ProjectName:          "Phoenix",
		Status:               tracker.StatusAtRisk,
		CompletionPercentage: 60,
		Sprint:               &tracker.Sprint{ID: 42, Name: "Phoenix Sprint 12"},
		Metrics: tracker.Metrics{
			TotalTasks:     10,
			CompletedTasks: 6,
			StoryPoints:    tracker.StoryPointTotals{Total: 42, Completed: 26, Remaining: 16},
		},
		Blockers: []tracker.Blocker{
			{TaskID: "PHOE-145", TaskTitle: "Vendor API key provisioning", Owner: "Sarah Chen", Severity: tracker.SeverityHigh},
		},
		DemoMode: true,
	}
}

func TestRenderStatusEmail(t *testing.T) {
	out := RenderStatusEmail(StatusEmail{
		Status: sampleStatus(),
		Stakeholders: []knowledge.Stakeholder{
			{Name: "Sarah Chen"}, {Name: "Michael Rodriguez"}, {Name: "Jessica Wong"}, {Name: "David Park"}, {Name: "Emily Thompson"},
		},
		Draft: &llm.EmailDraft{Subject: "Phoenix weekly update", Body: "Hi all,\n\nWe are 60% done."},
	})

	for _, want := range []string{
		"# 📊 Project Status & Email Update\n",
		"*🎭 Demo Mode",
		"**Project:** Phoenix\n**Status:** At Risk\n**Completion:** 60%\n**Tasks:** 6/10 completed\n",
		"### ⚠️ Blockers\n\n- **HIGH**: Vendor API key provisioning (Owner: Sarah Chen)\n",
		"**Sprint:** Phoenix Sprint 12\n**Progress:** 26/42 points\n",
		"**To:** Sarah Chen, Michael Rodriguez, Jessica Wong and 2 others\n",
		"**Subject:** Phoenix weekly update\n",
		"```\nHi all,\n\nWe are 60% done.\n```\n",
		"## ⚡ Next Steps\n\n• Review and edit the email draft\n• Send to stakeholders\n• Address blocking issues\n• Schedule follow-up",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n---\n%s", want, out)
		}
	}
}

func TestRenderStatusEmail_NotFound(t *testing.T) {
	out := RenderStatusEmail(StatusEmail{
		StatusError: `project "Zeus" not found`,
		Suggestions: []string{"Project Phoenix", "Phoenix Mobile"},
	})

	for _, want := range []string{
		"⚠️ Could not retrieve project status\n**Error:** project \"Zeus\" not found",
		"**Available projects:** Project Phoenix, Phoenix Mobile",
		"⚠️ No email draft was composed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n---\n%s", want, out)
		}
	}
}

func TestRecipientLine(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "Project Stakeholders"},
		{1, "A"},
		{3, "A, B, C"},
		{4, "A, B, C and 1 others"},
	}
	names := []string{"A", "B", "C", "D"}
	for _, tt := range tests {
		var people []knowledge.Stakeholder
		for _, n := range names[:tt.n] {
			people = append(people, knowledge.Stakeholder{Name: n})
		}
		if got := recipientLine(people); got != tt.want {
			t.Errorf("recipientLine(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	for in, want := range map[string]string{"at_risk": "At Risk", "on_track": "On Track", "unknown": "Unknown", "": ""} {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderError(t *testing.T) {
	out := RenderError([]Problem{
		{Step: "get_calendar_data", Message: "calendar offline"},
		{Step: "", Message: ""},
	})
	want := "I encountered some issues while processing your request:\n\n" +
		"- get_calendar_data: calendar offline\n- Unknown: Unknown error\n\n" +
		"Would you like me to try again or help with something else?"
	if out != want {
		t.Errorf("RenderError() =\n%q\nwant\n%q", out, want)
	}
}
