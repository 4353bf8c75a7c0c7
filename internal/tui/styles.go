// Package tui provides the terminal user interface for chatbot.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/render"
)

// Color variables (updated from the palette)
var (
	colorBorder lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when the palette changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle lipgloss.Style

	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	// Flight listings under a reply or from /flights
	attachmentLabelStyle lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle  lipgloss.Style
	noticeStyle lipgloss.Style
	infoStyle   lipgloss.Style

	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style

	// Overlays (profile selector, flight form, key entry)
	overlayStyle       lipgloss.Style
	overlayTitleStyle  lipgloss.Style
	menuItemStyle      lipgloss.Style
	menuSelectedStyle  lipgloss.Style
	menuCursorStyle    lipgloss.Style
	menuValueStyle     lipgloss.Style
	fieldLabelStyle    lipgloss.Style
	fieldFocusedStyle  lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles from the current palette
func UpdateTheme() {
	p := render.CurrentPalette()

	colorBorder = p.Border
	colorPrimary = p.Primary
	colorSecondary = p.Secondary
	colorAccent = p.Accent
	colorWarning = p.Warning
	colorError = p.Error
	colorText = p.Text
	colorTextDim = p.TextDim
	colorTextMute = p.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	attachmentLabelStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true).
		MarginTop(1)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Italic(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		MarginBottom(1)

	overlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		MarginBottom(1)

	menuItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	menuSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	menuCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	menuValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	fieldLabelStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Width(14)

	fieldFocusedStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Width(14)
}

// FormatError returns a styled error with status details and a hint.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if code := errors.GetErrorCode(err); code != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Error Code: %s", code)))
	}
	if hint := errorHint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}
	return sb.String()
}

// errorHint suggests a next step for common failures
func errorHint(err error) string {
	switch {
	case errors.IsAuthError(err):
		return "Check your OpenAI API key (OPENAI_API_KEY) and try again"
	case errors.IsRateLimitError(err):
		return "Rate limit or quota reached. Wait a moment or check your plan"
	case errors.IsTimeoutError(err):
		return "Request timed out. Try again or raise request_timeout"
	case errors.IsNetworkError(err):
		return "Check your internet connection and base_url"
	case errors.IsGenerationError(err):
		return "The flight listing could not be built. Ask again"
	}
	return ""
}

// PrintError prints a styled error message.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}
