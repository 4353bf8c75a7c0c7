package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Elijahuni/chatbot-1/internal/chat"
	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var colorSuccess = lipgloss.Color("#9ece6a")

// queryFlags are the one-shot query options
type queryFlags struct {
	output string
	file   string
	raw    bool
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	palette := render.CurrentPalette()

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(palette.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(palette.Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single prompt under the selected profile. Raw output
// streams fragments to stdout as they arrive; decorated output renders the
// finished reply as markdown.
func runQuery(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, opts *queryFlags, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	rawOutput := opts.raw

	cfg := deps.loadConfig()
	render.SetPalette(cfg.TUITheme)

	profileID, err := flags.resolveProfile(cfg)
	if err != nil {
		return err
	}
	if profileID == "" {
		return fmt.Errorf("no profile selected: pass --profile or set default_profile")
	}
	model := flags.resolveModel(cfg)

	apiKey, err := deps.resolveAPIKey(stderr)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := deps.startRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	client, err := deps.NewClient(apiKey, cfg, model)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	bot := chat.NewBot(client, rt.botOptions(deps.postProcessor())...)
	if _, err := bot.SelectProfile(profileID); err != nil {
		return err
	}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(stderr, "Generating response")
		spin.start()
	}

	// Raw output to stdout is streamed; everything else waits for the full reply
	streamToStdout := rawOutput && opts.output == ""
	startTime := time.Now()
	turn, err := bot.Send(ctx, prompt, func(chunk string) {
		if streamToStdout {
			fmt.Fprint(stdout, chunk)
		}
	})
	requestDuration := time.Since(startTime)

	if err != nil {
		if !rawOutput {
			spin.stopWithError()
		}
		return fmt.Errorf("generation failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess(fmt.Sprintf("Done (%s, %d chunks)", requestDuration.Round(time.Millisecond), turn.Chunks))
	}
	rt.logger.Debug("query completed", "duration", requestDuration, "model", model.Name)

	text := turn.Text
	att := turn.Attachment
	if att.Err != nil {
		fmt.Fprintln(stderr, formatErrorMessage(att.Err, "항공편 정보를 생성하지 못했습니다"))
	}

	// File output carries the reply and, when present, the listing as markdown
	if opts.output != "" {
		content := text
		if att.HasFlights() {
			content += "\n\n" + render.FlightMarkdown(att.Flights)
		}
		if err := os.WriteFile(opts.output, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", opts.output),
			)
			fmt.Fprintln(stderr, successMsg)
		}
		return nil
	}

	// Raw output mode: the text was streamed, append the listing as markdown
	if rawOutput {
		if att.HasFlights() {
			fmt.Fprint(stdout, "\n\n"+render.FlightMarkdown(att.Flights))
		} else {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(render.CurrentPalette().Error).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(stderr, clipMsg)
		}
	}

	printReply(stdout, bot, text, att, render.OptionsFromConfig(cfg.Markdown, 0))
	return nil
}

// printReply draws the reply in an assistant bubble, followed by the flight table
func printReply(w io.Writer, bot *chat.Bot, text string, att chat.Attachment, mdOpts render.Options) {
	palette := render.CurrentPalette()

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	labelStyle := lipgloss.NewStyle().Foreground(palette.Primary).Bold(true)
	bubbleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(palette.Primary).
		Foreground(palette.Text).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)

	title := "✦ Assistant"
	if p, ok := bot.ActiveProfile(); ok {
		title = "✦ " + p.Title
	}
	fmt.Fprintln(w, labelStyle.Render(title))

	rendered := strings.TrimRight(render.MarkdownOrPlain(text, mdOpts.WithWidth(contentWidth)), "\n")
	fmt.Fprintln(w, bubbleStyle.Width(bubbleWidth).Render(rendered))

	if att.HasFlights() {
		q := att.Intent.Query
		label := lipgloss.NewStyle().Foreground(palette.Accent).Bold(true).
			Render(fmt.Sprintf("✈ 항공편 검색 결과: %s → %s (%s)", q.Origin, q.Destination, q.Date))
		fmt.Fprintln(w, label)
		fmt.Fprintln(w, render.FlightTable(att.Flights, palette, 0))
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	palette := render.CurrentPalette()
	errorStyle := lipgloss.NewStyle().Foreground(palette.Error)
	dimStyle := lipgloss.NewStyle().Foreground(palette.TextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	// Extract additional context from structured errors
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if code := apierrors.GetErrorCode(err); code != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Error Code: %s", code)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check OPENAI_API_KEY or enter a valid key"))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout"))
	case apierrors.IsGenerationError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The flight listing could not be built. Try again"))
	}

	return sb.String()
}
