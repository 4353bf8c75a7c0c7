package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Elijahuni/chatbot-1/internal/api"
	"github.com/Elijahuni/chatbot-1/internal/config"
	"github.com/Elijahuni/chatbot-1/internal/render"
	"github.com/Elijahuni/chatbot-1/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

The chat keeps the conversation for the selected profile until the profile
changes or the program exits. Nothing is saved unless you use /export.

Commands inside the chat:
  /profile   switch between the travel and coding assistants
  /flights   search flights directly (travel profile)
  /copy      copy the last reply to the clipboard
  /export    save the conversation (markdown, or "/export json")
  /exit      quit (also Esc or Ctrl+C)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, flags)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, flags *globalFlags) error {
	cfg := deps.loadConfig()
	profileID, err := flags.resolveProfile(cfg)
	if err != nil {
		return err
	}
	model := flags.resolveModel(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := deps.startRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	render.SetPalette(cfg.TUITheme)
	tui.UpdateTheme()

	rt.logger.Info("chat started", "model", model.Name, "profile", string(profileID))

	return deps.TUI.RunChat(tui.Options{
		APIKey:  config.APIKeyFromEnv(),
		Profile: profileID,
		NewClient: func(apiKey string) (api.ChatClient, error) {
			return deps.NewClient(apiKey, cfg, model)
		},
		BotOptions:      rt.botOptions(deps.postProcessor()),
		Markdown:        render.OptionsFromConfig(cfg.Markdown, 0),
		ExportDir:       cfg.ExportDir,
		CopyToClipboard: cfg.CopyToClipboard,
		Logger:          rt.logger,
		Now:             deps.Now,
	})
}
