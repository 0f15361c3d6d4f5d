package knowledge

import (
	"regexp"
	"strings"
)

// MaxNamesPerDocument caps how many people one document contributes.
const MaxNamesPerDocument = 5

// FallbackEmailDomain builds addresses for people with none on record.
const FallbackEmailDomain = "company.com"

// Stakeholder is a person to address in project communication.
type Stakeholder struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DefaultStakeholders is used when the knowledge base cannot be searched.
func DefaultStakeholders() []Stakeholder {
	return []Stakeholder{
		{Name: "Sarah Chen", Email: "sarah.chen@company.com"},
		{Name: "Michael Rodriguez", Email: "michael.r@company.com"},
	}
}

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	namePattern  = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// notNameWords are capitalized words that appear in headings and job titles.
var notNameWords = map[string]bool{
	"Project": true, "Team": true, "Structure": true, "Core": true, "Lead": true,
	"Product": true, "Engineering": true, "Design": true, "Senior": true,
	"Director": true, "Manager": true, "Executive": true, "Sponsors": true,
	"External": true, "Stakeholders": true, "Primary": true, "Customer": true,
	"Integration": true, "Partner": true, "Communication": true, "Plan": true,
	"Members": true, "Tech": true, "Backend": true, "Engineers": true,
	"Status": true, "Update": true, "Corp": true, "Inc": true,
}

// ExtractStakeholders finds people named in the documents. A name picks up
// an email address written on the same line; otherwise the address is
// guessed as first.last@company.com. Each document contributes at most
// MaxNamesPerDocument names and every name appears once.
func ExtractStakeholders(docs []Document) []Stakeholder {
	seen := make(map[string]bool)
	out := []Stakeholder{}
	for _, doc := range docs {
		taken := 0
		for _, line := range strings.Split(doc.Content, "\n") {
			if taken == MaxNamesPerDocument {
				break
			}
			email := emailPattern.FindString(line)
			for _, name := range namePattern.FindAllString(line, -1) {
				if taken == MaxNamesPerDocument {
					break
				}
				if !looksLikeName(name) {
					continue
				}
				taken++
				if seen[name] {
					continue
				}
				seen[name] = true
				addr := email
				if addr == "" {
					addr = guessEmail(name)
				}
				out = append(out, Stakeholder{Name: name, Email: addr})
			}
		}
	}
	return out
}

// Documents unwraps search results.
func Documents(results []Result) []Document {
	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return docs
}

// ProjectTag reduces a display name such as "Project Phoenix" to the tag
// documents are filed under ("Phoenix").
func ProjectTag(name string) string {
	name = strings.TrimSpace(name)
	if rest, ok := cutPrefixFold(name, "project "); ok {
		name = strings.TrimSpace(rest)
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	return name
}

func looksLikeName(s string) bool {
	for _, w := range strings.Fields(s) {
		if notNameWords[w] {
			return false
		}
	}
	return true
}

func guessEmail(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@" + FallbackEmailDomain
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
