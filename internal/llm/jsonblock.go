package llm

import (
	"strings"

	"github.com/tidwall/gjson"
)

// extractObject finds a JSON object in model output. It tries the whole
// reply, then the first fenced code block, then the outermost braces.
func extractObject(content string) (gjson.Result, bool) {
	candidates := []string{strings.TrimSpace(content)}
	if block, ok := fencedBlock(content); ok {
		candidates = append(candidates, block)
	}
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		candidates = append(candidates, content[start:end+1])
	}
	for _, c := range candidates {
		if !gjson.Valid(c) {
			continue
		}
		if r := gjson.Parse(c); r.IsObject() {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// fencedBlock returns the body of the first ``` block, preferring one
// tagged json.
func fencedBlock(content string) (string, bool) {
	start := strings.Index(content, "```json")
	if start >= 0 {
		start += len("```json")
	} else if start = strings.Index(content, "```"); start >= 0 {
		start += len("```")
	} else {
		return "", false
	}
	end := strings.Index(content[start:], "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(content[start : start+end]), true
}
