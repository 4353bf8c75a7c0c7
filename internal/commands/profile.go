package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Elijahuni/chatbot-1/internal/config"
)

func newProfileCmd(deps *Dependencies) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Show the assistant profiles",
		Long:    `View the assistant profiles (system prompts) available for chat sessions.`,
	}

	profileCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileList(cmd, deps)
		},
	})
	profileCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show profile details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(cmd, args[0])
		},
	})

	return profileCmd
}

func runProfileList(cmd *cobra.Command, deps *Dependencies) error {
	cfg := deps.loadConfig()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tFLIGHTS\tDEFAULT")
	_, _ = fmt.Fprintln(w, "--\t-----\t-------\t-------")

	for _, p := range config.Profiles() {
		isDefault := ""
		if string(p.ID) == cfg.DefaultProfile {
			isDefault = "✓"
		}
		flights := ""
		if p.FlightSearch {
			flights = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Title, flights, isDefault)
	}

	return w.Flush()
}

func runProfileShow(cmd *cobra.Command, name string) error {
	id, err := config.ParseProfileID(name)
	if err != nil {
		return err
	}
	p, err := config.GetProfile(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %s\n", p.ID)
	fmt.Fprintf(out, "Title: %s\n", p.Title)
	fmt.Fprintf(out, "Description: %s\n", p.Description)
	fmt.Fprintf(out, "Flight search: %t\n", p.FlightSearch)
	fmt.Fprintf(out, "\nSystem Prompt:\n%s\n", p.SystemPrompt)

	return nil
}
