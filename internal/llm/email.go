package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Email tones.
const (
	ToneFormal = "formal"
	ToneCasual = "casual"
	ToneUrgent = "urgent"
)

// Recipient is someone an email is addressed to.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// EmailRequest describes the email to draft.
type EmailRequest struct {
	Purpose            string
	KeyPoints          []string
	Recipients         []Recipient
	Tone               string
	IncludeActionItems bool
}

// EmailMetadata summarizes a draft.
type EmailMetadata struct {
	Tone            string `json:"tone"`
	WordCount       int    `json:"word_count"`
	RecipientsCount int    `json:"recipients_count"`
}

// EmailDraft is a composed email.
type EmailDraft struct {
	Subject  string        `json:"subject"`
	Body     string        `json:"body"`
	Metadata EmailMetadata `json:"metadata"`
	// Fallback is set when the draft was built without the model.
	Fallback bool `json:"fallback,omitempty"`
}

// Drafter composes emails with the model.
type Drafter struct {
	llm Completer
}

// NewDrafter returns a drafter backed by llm.
func NewDrafter(llm Completer) *Drafter {
	return &Drafter{llm: llm}
}

// Draft composes the email. If the request fails the template draft from
// FallbackDraft is returned together with the error.
func (d *Drafter) Draft(ctx context.Context, req EmailRequest) (EmailDraft, error) {
	if req.Tone == "" {
		req.Tone = ToneFormal
	}
	reply, err := d.llm.Complete(ctx, SystemPrompt, emailPromptFor(req))
	if err != nil {
		return FallbackDraft(req), fmt.Errorf("compose email: %w", err)
	}
	subject, body := ParseDraft(reply, req.Purpose)
	return withMetadata(EmailDraft{Subject: subject, Body: body}, req), nil
}

// FallbackDraft lists the key points under a generic subject.
func FallbackDraft(req EmailRequest) EmailDraft {
	body := "Email composition encountered an error. Key points:\n\n" + bulletList(req.KeyPoints)
	d := withMetadata(EmailDraft{Subject: "Update: " + req.Purpose, Body: body}, req)
	d.Fallback = true
	return d
}

// TemplateDrafter composes emails from the key points alone. It stands in
// when no model is configured.
type TemplateDrafter struct{}

// Draft implements the same contract as Drafter.Draft and never fails.
func (TemplateDrafter) Draft(ctx context.Context, req EmailRequest) (EmailDraft, error) {
	return TemplateDraft(req), nil
}

// TemplateDraft lays the key points out as a plain status email.
func TemplateDraft(req EmailRequest) EmailDraft {
	body := "Hi all,\n\nHere is the latest update.\n\n" + bulletList(req.KeyPoints)
	if req.IncludeActionItems {
		body += "\n\nPlease reply with any questions, and flag anything blocking your work."
	}
	body += "\n\nBest regards"
	return withMetadata(EmailDraft{Subject: req.Purpose, Body: body}, req)
}

func withMetadata(d EmailDraft, req EmailRequest) EmailDraft {
	tone := req.Tone
	if tone == "" {
		tone = ToneFormal
	}
	d.Metadata = EmailMetadata{
		Tone:            tone,
		WordCount:       len(strings.Fields(d.Body)),
		RecipientsCount: len(req.Recipients),
	}
	return d
}

func emailPromptFor(req EmailRequest) string {
	recipients := "General stakeholders"
	if len(req.Recipients) > 0 {
		parts := make([]string, len(req.Recipients))
		for i, r := range req.Recipients {
			role := r.Role
			if role == "" {
				role = "Team Member"
			}
			parts[i] = fmt.Sprintf("%s (%s)", r.Name, role)
		}
		recipients = strings.Join(parts, ", ")
	}
	return fmt.Sprintf(emailPrompt, req.Purpose, bulletList(req.KeyPoints), recipients, req.Tone, req.IncludeActionItems)
}

func bulletList(points []string) string {
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = "- " + p
	}
	return strings.Join(lines, "\n")
}

var (
	subjectPattern     = regexp.MustCompile(`(?i)["']subject["']\s*:\s*["']([^"']+)["']`)
	bodyPattern        = regexp.MustCompile(`(?is)["']body["']\s*:\s*["']([^"']+)["']`)
	tripleQuotePattern = regexp.MustCompile(`(?s)["']body["']\s*:\s*"""(.+?)"""`)
)

// ParseDraft reads subject and body from model output. It accepts a JSON
// object, a JSON object in a fenced block, or loose "subject": "..."
// pairs; anything else becomes the body under an "Update: purpose" subject.
func ParseDraft(reply, purpose string) (subject, body string) {
	if obj, ok := extractObject(reply); ok {
		s, b := obj.Get("subject"), obj.Get("body")
		if s.Exists() && b.Exists() {
			return s.String(), b.String()
		}
	}

	if m := subjectPattern.FindStringSubmatch(reply); m != nil {
		subject = m[1]
		body = reply
		if bm := tripleQuotePattern.FindStringSubmatch(reply); bm != nil {
			body = strings.TrimSpace(bm[1])
		} else if bm := bodyPattern.FindStringSubmatch(reply); bm != nil {
			body = bm[1]
		}
		return subject, body
	}

	return "Update: " + purpose, strings.TrimSpace(reply)
}
