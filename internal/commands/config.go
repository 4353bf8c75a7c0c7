package commands

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Elijahuni/chatbot-1/internal/config"
	"github.com/Elijahuni/chatbot-1/internal/render"
)

func newConfigCmd(deps *Dependencies) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change chatbot settings stored in config.json.

Keys: ` + strings.Join(config.SettableKeys(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, deps)
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, deps)
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, deps, args[0], args[1])
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return configCmd
}

func runConfigShow(cmd *cobra.Command, deps *Dependencies) error {
	cfg := deps.loadConfig()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigSet(cmd *cobra.Command, deps *Dependencies, key, value string) error {
	// Theme names are owned by the render package
	switch key {
	case "tui_theme":
		if _, ok := render.PaletteByName(value); !ok {
			return fmt.Errorf("unknown theme '%s' (available: %s)", value, strings.Join(render.PaletteNames(), ", "))
		}
	case "markdown.style":
		if !slices.Contains(render.StyleNames(), value) {
			return fmt.Errorf("unknown markdown style '%s' (available: %s)", value, strings.Join(render.StyleNames(), ", "))
		}
	}

	cfg := deps.loadConfig()
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to '%s'.\n", key, strings.TrimSpace(value))
	return nil
}
