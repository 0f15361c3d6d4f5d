// Package tui provides the copilot's terminal chat console.
//
// The console is a single screen: a scrolling transcript of questions and
// rendered copilot responses above a text input. Each submitted question
// runs one copilot request in the background; the status line shows
// whether a request is in flight.
//
// Usage:
//
//	program := tui.NewChatProgram(c)
//	if _, err := program.Run(); err != nil {
//	    return err
//	}
//
// Keys: enter submits, up/down and pgup/pgdown scroll the transcript,
// ctrl+c quits.
package tui
