package tui

import (
	"strings"
)

// Transcript is a scrollable view of the conversation.
type Transcript struct {
	// lines holds every line appended so far.
	lines []string
	// scrollOffset is the first visible wrapped line.
	scrollOffset int
	width        int
	height       int
	// autoScroll follows new content until the user scrolls up.
	autoScroll bool
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		lines:      make([]string, 0),
		width:      80,
		height:     20,
		autoScroll: true,
	}
}

// Append adds text, split into lines, to the end of the transcript.
func (t *Transcript) Append(text string) {
	t.lines = append(t.lines, strings.Split(text, "\n")...)
	if t.autoScroll {
		t.scrollToBottom()
	}
}

// Len returns the number of unwrapped lines.
func (t *Transcript) Len() int {
	return len(t.lines)
}

// View renders the visible window.
func (t *Transcript) View() string {
	wrapped := t.wrapLines()
	if t.scrollOffset > len(wrapped)-t.height {
		t.scrollOffset = max(0, len(wrapped)-t.height)
	}
	end := min(t.scrollOffset+t.height, len(wrapped))
	return strings.Join(wrapped[t.scrollOffset:end], "\n")
}

// ScrollUp moves the view up by one line and stops following new content.
func (t *Transcript) ScrollUp() {
	if t.scrollOffset > 0 {
		t.scrollOffset--
	}
	t.autoScroll = false
}

// ScrollDown moves the view down by one line. Reaching the bottom resumes
// following new content.
func (t *Transcript) ScrollDown() {
	maxOffset := max(0, len(t.wrapLines())-t.height)
	if t.scrollOffset < maxOffset {
		t.scrollOffset++
	}
	t.autoScroll = t.scrollOffset == maxOffset
}

// ScrollPageUp moves the view up by one page.
func (t *Transcript) ScrollPageUp() {
	t.scrollOffset = max(0, t.scrollOffset-t.height)
	t.autoScroll = false
}

// ScrollPageDown moves the view down by one page.
func (t *Transcript) ScrollPageDown() {
	maxOffset := max(0, len(t.wrapLines())-t.height)
	t.scrollOffset = min(t.scrollOffset+t.height, maxOffset)
	t.autoScroll = t.scrollOffset == maxOffset
}

// SetSize updates the view dimensions.
func (t *Transcript) SetSize(width, height int) {
	t.width = width
	t.height = max(1, height)
	if t.autoScroll {
		t.scrollToBottom()
	}
}

func (t *Transcript) scrollToBottom() {
	t.scrollOffset = max(0, len(t.wrapLines())-t.height)
}

// wrapLines wraps lines to the view width, breaking at a space in the
// second half of the line when there is one.
func (t *Transcript) wrapLines() []string {
	if t.width <= 0 {
		return t.lines
	}

	var wrapped []string
	for _, line := range t.lines {
		runes := []rune(line)
		for len(runes) > t.width {
			breakPoint := t.width
			for i := t.width - 1; i > t.width/2; i-- {
				if runes[i] == ' ' {
					breakPoint = i + 1
					break
				}
			}
			wrapped = append(wrapped, string(runes[:breakPoint]))
			runes = runes[breakPoint:]
		}
		wrapped = append(wrapped, string(runes))
	}
	return wrapped
}
