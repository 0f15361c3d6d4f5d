package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Intent kinds produced by the parser's fallback.
const (
	IntentMultiStep = "multi_step_workflow"
)

// FallbackConfidence is reported when the model reply could not be read.
const FallbackConfidence = 0.8

// Intent is the structured reading of a user request.
type Intent struct {
	Intent        string            `json:"intent"`
	Entities      map[string]string `json:"entities"`
	RequiredTools []string          `json:"required_tools"`
	Confidence    float64           `json:"confidence"`
	Ambiguities   []string          `json:"ambiguities,omitempty"`
	// Fallback is set when the intent was not read from the model.
	Fallback bool `json:"fallback,omitempty"`
}

// Project returns the project entity, if any.
func (i Intent) Project() string {
	return i.Entities["project"]
}

// IntentParser asks the model to classify a request.
type IntentParser struct {
	llm Completer
	// DefaultProject fills the fallback intent's project entity.
	DefaultProject string
}

// NewIntentParser returns a parser. defaultProject names the project the
// fallback intent reports on.
func NewIntentParser(llm Completer, defaultProject string) *IntentParser {
	return &IntentParser{llm: llm, DefaultProject: defaultProject}
}

// FallbackIntent is the status-email reading used when the model reply
// cannot be parsed.
func FallbackIntent(project string) Intent {
	return Intent{
		Intent:        IntentMultiStep,
		Entities:      map[string]string{"project": project},
		RequiredTools: []string{"get_project_status", "knowledge_search", "compose_email"},
		Confidence:    FallbackConfidence,
		Fallback:      true,
	}
}

// Parse classifies query. An unreadable reply yields the fallback intent
// and no error; a failed request yields the fallback intent and the error.
func (p *IntentParser) Parse(ctx context.Context, query string) (Intent, error) {
	reply, err := p.llm.Complete(ctx, SystemPrompt, fmt.Sprintf(intentPrompt, query))
	if err != nil {
		return FallbackIntent(p.DefaultProject), fmt.Errorf("parse intent: %w", err)
	}
	intent, ok := ParseIntent(reply)
	if !ok {
		return FallbackIntent(p.DefaultProject), nil
	}
	if intent.Project() == "" && p.DefaultProject != "" {
		intent.Entities["project"] = p.DefaultProject
	}
	return intent, nil
}

// ParseIntent reads an intent object out of model output.
func ParseIntent(reply string) (Intent, bool) {
	obj, ok := extractObject(reply)
	if !ok || !obj.Get("intent").Exists() {
		return Intent{}, false
	}

	intent := Intent{
		Intent:     obj.Get("intent").String(),
		Entities:   map[string]string{},
		Confidence: FallbackConfidence,
	}
	if c := obj.Get("confidence"); c.Type == gjson.Number {
		intent.Confidence = c.Float()
	}
	obj.Get("entities").ForEach(func(k, v gjson.Result) bool {
		// Lists collapse to their first element.
		if v.IsArray() {
			v = v.Get("0")
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			intent.Entities[k.String()] = s
		}
		return true
	})
	intent.RequiredTools = stringList(obj.Get("required_tools"))
	intent.Ambiguities = stringList(obj.Get("ambiguities"))
	return intent, true
}

func stringList(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}
