package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elijahuni/chatbot-1/internal/flights"
	"github.com/Elijahuni/chatbot-1/internal/intent"
	"github.com/Elijahuni/chatbot-1/internal/render"
)

type flightsFlags struct {
	from string
	to   string
	date string
	raw  bool
}

func newFlightsCmd(deps *Dependencies) *cobra.Command {
	f := &flightsFlags{}

	cmd := &cobra.Command{
		Use:   "flights",
		Short: "Show a simulated flight listing",
		Long: `Generate a listing of five simulated flights for a route and date.
The listing is random and is not fetched from any airline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlights(cmd, deps, f)
		},
	}

	cmd.Flags().StringVar(&f.from, "from", intent.DefaultOrigin, "Departure city")
	cmd.Flags().StringVar(&f.to, "to", intent.DefaultDestination, "Arrival city")
	cmd.Flags().StringVar(&f.date, "date", "", "Travel date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Print a markdown table")

	return cmd
}

func runFlights(cmd *cobra.Command, deps *Dependencies, f *flightsFlags) error {
	date := f.date
	if date == "" {
		date = deps.now().Format(flights.DateLayout)
	}

	list, err := deps.generator().Generate(f.from, f.to, date)
	if err != nil {
		return fmt.Errorf("flight search: %w", err)
	}

	out := cmd.OutOrStdout()
	if f.raw || !isStdoutTTY() {
		fmt.Fprint(out, render.FlightMarkdown(list))
		return nil
	}

	cfg := deps.loadConfig()
	render.SetPalette(cfg.TUITheme)
	fmt.Fprintf(out, "✈ %s → %s (%s)\n", f.from, f.to, date)
	fmt.Fprintln(out, render.FlightTable(list, render.CurrentPalette(), 0))
	return nil
}
