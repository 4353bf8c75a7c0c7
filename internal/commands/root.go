// Package commands provides CLI commands for chatbot.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Elijahuni/chatbot-1/internal/config"
	"github.com/Elijahuni/chatbot-1/internal/models"
	"github.com/Elijahuni/chatbot-1/internal/telemetry"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by the root command and its subcommands
type globalFlags struct {
	model   string
	profile string
}

// resolveModel returns the model to use (from flag or config)
func (f *globalFlags) resolveModel(cfg config.Config) models.Model {
	if f.model != "" {
		return models.ModelFromName(f.model)
	}
	return models.ModelFromName(cfg.Model)
}

// resolveProfile returns the flag profile, else the configured default.
// An empty result means the user picks one interactively.
func (f *globalFlags) resolveProfile(cfg config.Config) (config.ProfileID, error) {
	name := f.profile
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name == "" {
		return "", nil
	}
	return config.ParseProfileID(name)
}

// NewRootCmd builds the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &globalFlags{}
	query := &queryFlags{}

	rootCmd := &cobra.Command{
		Use:   "chatbot [prompt]",
		Short: "Travel and coding assistant chat for the terminal",
		Long: `chatbot talks to the OpenAI Chat Completions API with one of two
assistant profiles: a travel consultant that can show flight listings, and a
programming tutor.

The API key is read from OPENAI_API_KEY or prompted for. It is never saved.

Examples:
  chatbot chat                          Start interactive chat
  chatbot chat -p coding                Chat with the programming tutor
  chatbot "제주도 2박 3일 일정 추천"        Send a single query
  chatbot -f prompt.md                  Read prompt from file
  cat prompt.md | chatbot               Read prompt from stdin
  chatbot "Hello" -o response.md        Save response to file
  chatbot flights --to 부산              Show a flight listing`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "chatbot %s (built %s)\n", Version, BuildTime)
				return nil
			}

			// Check for file input
			if query.file != "" {
				data, err := os.ReadFile(query.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(cmd, deps, flags, query, string(data))
			}

			// Check for stdin
			if deps.StdinIsPipe != nil && deps.StdinIsPipe() {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runQuery(cmd, deps, flags, query, string(data))
			}

			// Check for positional argument
			if len(args) > 0 {
				return runQuery(cmd, deps, flags, query, args[0])
			}

			// No input - show help
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flags.model, "model", "m", "", "Model to use (e.g., gpt-4o-mini)")
	rootCmd.PersistentFlags().StringVarP(&flags.profile, "profile", "p", "", "Assistant profile (travel, coding)")
	rootCmd.Flags().StringVarP(&query.output, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&query.file, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolVar(&query.raw, "raw", false, "Print only the response text")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(newChatCmd(deps, flags))
	rootCmd.AddCommand(newProfileCmd(deps))
	rootCmd.AddCommand(newFlightsCmd(deps))
	rootCmd.AddCommand(newConfigCmd(deps))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	telemetry.Version = Version
	if err := NewRootCmd(NewDependencies()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}
