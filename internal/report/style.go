package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	minorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	bulletStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Styled colors Markdown headings and bullets for a terminal. The text is
// unchanged apart from the heading markers, which are dropped.
func Styled(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			lines[i] = minorStyle.Render(strings.TrimPrefix(line, "### "))
		case strings.HasPrefix(line, "## "):
			lines[i] = sectionStyle.Render(strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "# "):
			lines[i] = titleStyle.Render(strings.TrimPrefix(line, "# "))
		case strings.HasPrefix(line, "• "):
			lines[i] = bulletStyle.Render("•") + strings.TrimPrefix(line, "•")
		}
	}
	return strings.Join(lines, "\n")
}
