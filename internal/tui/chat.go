package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/copilot/internal/copilot"
	"github.com/ShayCichocki/copilot/internal/report"
)

// RequestTimeout bounds one copilot request started from the console.
const RequestTimeout = 2 * time.Minute

// Runner executes copilot requests. *copilot.Copilot implements it.
type Runner interface {
	Run(ctx context.Context, req copilot.Request) (*copilot.State, error)
}

// ResponseMsg carries a finished request back to the console.
type ResponseMsg struct {
	Query string
	State *copilot.State
	Err   error
}

// ChatApp is the chat console model.
type ChatApp struct {
	runner     Runner
	inputField *InputField
	transcript *Transcript
	width      int
	height     int
	// pending counts requests still running.
	pending  int
	quitting bool
	// styled renders responses with terminal styling.
	styled bool

	titleStyle  lipgloss.Style
	queryStyle  lipgloss.Style
	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewChatApp creates a console backed by runner.
func NewChatApp(runner Runner) *ChatApp {
	return &ChatApp{
		runner:     runner,
		inputField: NewInputField(),
		transcript: NewTranscript(),
		styled:     true,

		titleStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1),
		queryStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// SetStyled turns response styling on or off.
func (a *ChatApp) SetStyled(on bool) {
	a.styled = on
}

// Init implements tea.Model.
func (a *ChatApp) Init() tea.Cmd {
	return a.inputField.Focus()
}

// Update implements tea.Model.
func (a *ChatApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit
		case "up":
			a.transcript.ScrollUp()
			return a, nil
		case "down":
			a.transcript.ScrollDown()
			return a, nil
		case "pgup":
			a.transcript.ScrollPageUp()
			return a, nil
		case "pgdown":
			a.transcript.ScrollPageDown()
			return a, nil
		}
		var cmd tea.Cmd
		a.inputField, cmd = a.inputField.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case QuerySubmittedMsg:
		a.transcript.Append(a.queryStyle.Render("> "+msg.Query) + "\n")
		a.pending++
		return a, a.ask(msg.Query)

	case ResponseMsg:
		a.pending--
		a.transcript.Append(a.render(msg) + "\n")
		return a, nil
	}

	var cmd tea.Cmd
	a.inputField, cmd = a.inputField.Update(msg)
	return a, cmd
}

// ask runs the query off the UI loop.
func (a *ChatApp) ask(query string) tea.Cmd {
	runner := a.runner
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()
		st, err := runner.Run(ctx, copilot.Request{Query: query})
		return ResponseMsg{Query: query, State: st, Err: err}
	}
}

func (a *ChatApp) render(msg ResponseMsg) string {
	var text string
	if msg.State != nil {
		text = msg.State.Response
	}
	if a.styled && text != "" {
		text = report.Styled(text)
	}
	if msg.Err != nil {
		errLine := a.errorStyle.Render("error: " + msg.Err.Error())
		if text == "" {
			return errLine
		}
		return text + "\n" + errLine
	}
	return text
}

// updateSizes splits the screen between title, transcript, status and input.
func (a *ChatApp) updateSizes() {
	const chrome = 1 + 1 + 3 // title, status line, bordered input
	a.transcript.SetSize(a.width, a.height-chrome)
	a.inputField.SetWidth(a.width)
}

func (a *ChatApp) status() string {
	if a.pending > 0 {
		return fmt.Sprintf("working on %d request(s)...", a.pending)
	}
	return "ready · enter to ask · ↑/↓ scroll · ctrl+c to quit"
}

// View implements tea.Model.
func (a *ChatApp) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.titleStyle.Render("Copilot"),
		a.transcript.View(),
		a.statusStyle.Render(a.status()),
		a.inputField.View(),
	)
}

// NewChatProgram creates the Bubbletea program for the chat console.
func NewChatProgram(runner Runner) *tea.Program {
	return tea.NewProgram(NewChatApp(runner), tea.WithAltScreen())
}
