package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify copilot configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the value in the user config file.

Configuration is stored at ~/.config/copilot/config.yaml
Project-specific overrides can be placed in .copilot.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 0:
			return displayAllConfig(cmd)
		case 1:
			return displayConfigKey(cmd, args[0])
		default:
			return setConfigKey(cmd, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, key := range config.Keys() {
		v, err := config.Value(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", key, config.DisplayValue(key, v))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "user config:    %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Fprintf(out, "project config: %s\n", p)
	}
	fmt.Fprintf(out, "model credentials: %s\n", config.GetAPIKeySource(cfg))
	return nil
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cmd *cobra.Command, key string) error {
	key = strings.ToLower(key)
	v, err := config.Value(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), config.DisplayValue(key, v))
	return nil
}

// setConfigKey sets a configuration value in the user config file.
func setConfigKey(cmd *cobra.Command, key, value string) error {
	key = strings.ToLower(key)
	if key == "anthropic.api_key" {
		if err := config.ValidateAPIKey(value); err != nil {
			return err
		}
	}
	if err := config.SetUserValue(key, value); err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), "✓", fmt.Sprintf("Set %s = %s", key, config.DisplayValue(key, value)), color.FgGreen)
	return nil
}
