package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat console",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := loadApp(appOptions{knowledge: true, model: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := tui.NewChatProgram(a.copilot).Run(); err != nil {
		return fmt.Errorf("chat console: %w", err)
	}
	a.reportUsage()
	return nil
}
