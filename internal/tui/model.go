package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Elijahuni/chatbot-1/internal/api"
	"github.com/Elijahuni/chatbot-1/internal/chat"
	"github.com/Elijahuni/chatbot-1/internal/config"
	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/history"
	"github.com/Elijahuni/chatbot-1/internal/intent"
	"github.com/Elijahuni/chatbot-1/internal/models"
	"github.com/Elijahuni/chatbot-1/internal/render"
	"github.com/Elijahuni/chatbot-1/internal/telemetry"
)

// screen is the part of the UI that receives input
type screen int

const (
	screenKeyEntry screen = iota
	screenChat
	screenProfile
	screenFlights
)

// Animation tick message
type animationTickMsg time.Time

// Messages sent from the reply goroutine
type (
	chunkMsg string
	replyDoneMsg struct {
		turn *chat.Turn
		err  error
	}
)

// ClientFactory builds a model client once the user has entered a key
type ClientFactory func(apiKey string) (api.ChatClient, error)

// Options configures the chat TUI
type Options struct {
	APIKey          string           // pre-fills the key screen
	Profile         config.ProfileID // selected after the key is accepted; empty opens the selector
	NewClient       ClientFactory
	BotOptions      []chat.BotOption
	Markdown        render.Options
	ExportDir       string
	CopyToClipboard bool // copy each completed reply
	Logger          *slog.Logger
	Now             func() time.Time
}

// directSearch is a listing requested with /flights. It is displayed after
// the visible message at index after-1 and is never part of the history.
type directSearch struct {
	after   int
	query   models.FlightQuery
	flights []models.Flight
}

// Model represents the TUI state
type Model struct {
	opts   Options
	client api.ChatClient
	bot    *chat.Bot
	logger *slog.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	keyInput textinput.Model
	selector profileSelector
	form     flightForm

	screen screen

	// Reply state
	loading        bool
	streaming      string
	events         chan tea.Msg
	cancel         context.CancelFunc
	animationFrame int

	// attachments are keyed by the index of the assistant reply in the
	// visible history
	attachments map[int]chat.Attachment
	searches    []directSearch

	ready  bool
	err    error
	notice string

	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = telemetry.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Markdown.Style == "" {
		opts.Markdown = render.DefaultOptions()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	key := textinput.New()
	key.Placeholder = "sk-..."
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.CharLimit = 256
	key.Width = 48
	key.SetValue(strings.TrimSpace(opts.APIKey))
	key.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		opts:        opts,
		logger:      opts.Logger,
		textarea:    ta,
		spinner:     s,
		keyInput:    key,
		selector:    newProfileSelector(),
		form:        newFlightForm(opts.Now),
		screen:      screenKeyEntry,
		attachments: make(map[int]chat.Attachment),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, textarea.Blink)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// waitForEvent delivers the next message from the reply goroutine
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			// the reply goroutine drops its final message once cancelled
			return replyDoneMsg{err: context.Canceled}
		}
		return msg
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stopReply()
			return m, tea.Quit
		}
		switch m.screen {
		case screenKeyEntry:
			return m.updateKeyEntry(msg)
		case screenProfile:
			return m.updateProfileSelector(msg)
		case screenFlights:
			return m.updateFlightForm(msg)
		}
		if next, cmd, handled := m.handleChatKey(msg); handled {
			return next, cmd
		}

	case chunkMsg:
		m.streaming += string(msg)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, waitForEvent(m.events)

	case replyDoneMsg:
		m.finishReply(msg)
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to the textarea to keep escape sequences out of the input
	if m.screen == screenChat && !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 6
	statusHeight := 1
	padding := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.updateViewport()
}

// handleChatKey processes keys on the chat screen. handled is false when the
// key should fall through to the textarea and viewport.
func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		if m.loading {
			m.stopReply()
			return m, nil, true
		}
		return m, tea.Quit, true

	case "ctrl+p":
		if !m.loading {
			m.openProfileSelector()
		}
		return m, nil, true

	case "enter":
		if m.loading {
			return m, nil, true
		}
		input := strings.TrimSpace(m.textarea.Value())
		if input == "" {
			return m, nil, true
		}
		if strings.HasPrefix(input, "/") || input == "exit" || input == "quit" {
			next, cmd := m.runCommand(input)
			return next, cmd, true
		}
		next, cmd := m.submit(m.textarea.Value())
		return next, cmd, true
	}
	return m, nil, false
}

// runCommand handles slash commands typed into the input
func (m Model) runCommand(input string) (Model, tea.Cmd) {
	m.textarea.Reset()
	m.err = nil
	m.notice = ""

	switch strings.Fields(input)[0] {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	case "/profile", "/profiles":
		m.openProfileSelector()
	case "/flights", "/flight":
		m.openFlightForm()
	case "/copy":
		m.copyLastReply()
	case "/export":
		m.export(input)
	case "/help":
		m.notice = "/profile  /flights  /copy  /export [json]  /exit"
	default:
		m.err = fmt.Errorf("unknown command %s (try /help)", input)
	}
	return m, nil
}

// submit records the user message and starts streaming the reply
func (m Model) submit(text string) (Model, tea.Cmd) {
	m.err = nil
	m.notice = ""

	appended, err := m.bot.Submit(text)
	if err != nil {
		m.err = err
		return m, nil
	}
	if !appended {
		return m, nil
	}
	m.textarea.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 64)
	m.events = events
	m.cancel = cancel
	m.loading = true
	m.streaming = ""
	m.animationFrame = 0

	bot := m.bot
	go func() {
		defer close(events)
		turn, err := bot.Reply(ctx, func(chunk string) {
			select {
			case events <- chunkMsg(chunk):
			case <-ctx.Done():
			}
		})
		select {
		case events <- replyDoneMsg{turn: turn, err: err}:
		case <-ctx.Done():
		}
	}()

	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(waitForEvent(events), m.spinner.Tick, animationTick())
}

func (m *Model) stopReply() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Model) finishReply(msg replyDoneMsg) {
	m.loading = false
	m.streaming = ""
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	switch {
	case errors.Is(msg.err, context.Canceled):
		m.notice = "응답이 취소되었습니다."
	case errors.Is(msg.err, apierrors.ErrSessionReset):
		m.notice = "챗봇 유형이 바뀌어 이전 답변을 버렸습니다."
	case msg.err != nil:
		m.err = msg.err
	case msg.turn != nil:
		idx := len(m.bot.Session().Visible()) - 1
		if msg.turn.Attachment.Intent.Kind == intent.ShowFlights {
			m.attachments[idx] = msg.turn.Attachment
		}
		if m.opts.CopyToClipboard {
			if err := clipboard.WriteAll(msg.turn.Text); err != nil {
				m.logger.Warn("clipboard copy failed", "error", err)
			}
		}
	}

	m.updateViewport()
	m.viewport.GotoBottom()
}

func (m *Model) copyLastReply() {
	visible := m.visible()
	for i := len(visible) - 1; i >= 0; i-- {
		if visible[i].Role == models.RoleAssistant {
			if err := clipboard.WriteAll(visible[i].Content); err != nil {
				m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
				return
			}
			m.notice = "마지막 답변을 클립보드에 복사했습니다."
			return
		}
	}
	m.notice = "복사할 답변이 없습니다."
}

func (m *Model) export(input string) {
	if m.bot == nil {
		return
	}
	opts := history.DefaultExportOptions()
	if fields := strings.Fields(input); len(fields) > 1 {
		format, err := history.ParseExportFormat(fields[1])
		if err != nil {
			m.err = err
			return
		}
		opts.Format = format
	}

	path, err := history.WriteExport(m.opts.ExportDir, m.bot.Session().Snapshot(), opts)
	if err != nil {
		m.err = err
		return
	}
	m.logger.Info("conversation exported", "path", path, "format", string(opts.Format))
	m.notice = "Exported to " + path
}

// acceptKey builds the client and the bot from the entered key
func (m Model) acceptKey(key string) (Model, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return m, apierrors.ErrMissingAPIKey
	}
	if m.opts.NewClient == nil {
		return m, fmt.Errorf("no client factory configured")
	}

	client, err := m.opts.NewClient(key)
	if err != nil {
		return m, err
	}
	m.client = client
	m.bot = chat.NewBot(client, m.opts.BotOptions...)
	m.screen = screenChat
	m.textarea.Focus()

	if m.opts.Profile != "" {
		if _, err := m.bot.SelectProfile(m.opts.Profile); err != nil {
			m.err = err
			m.openProfileSelector()
			return m, nil
		}
		m.applyProfile()
		return m, nil
	}
	m.openProfileSelector()
	return m, nil
}

func (m Model) updateKeyEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		m.err = nil
		next, err := m.acceptKey(m.keyInput.Value())
		if err != nil {
			next.err = err
			return next, nil
		}
		next.keyInput.Reset()
		next.keyInput.Blur()
		next.updateViewport()
		return next, textarea.Blink
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

// clearTranscript drops listings that belonged to the previous conversation
func (m *Model) clearTranscript() {
	m.attachments = make(map[int]chat.Attachment)
	m.searches = nil
	m.notice = ""
}

// applyProfile updates the input hint after a profile change
func (m *Model) applyProfile() {
	if p, ok := m.activeProfile(); ok {
		m.textarea.Placeholder = p.Placeholder
	}
}

func (m Model) activeProfile() (config.Profile, bool) {
	if m.bot == nil {
		return config.Profile{}, false
	}
	return m.bot.ActiveProfile()
}

func (m Model) visible() []models.Message {
	if m.bot == nil {
		return nil
	}
	return m.bot.Session().Visible()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	switch m.screen {
	case screenKeyEntry:
		return m.renderKeyEntry()
	case screenProfile:
		return m.renderProfileSelector()
	case screenFlights:
		return m.renderFlightForm()
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	title := "💬 Chatbot"
	subtitle := ""
	if p, ok := m.activeProfile(); ok {
		title = "💬 " + p.Title
		subtitle = p.Description
	}
	headerParts := []string{titleStyle.Render(title)}
	if m.client != nil {
		headerParts = append(headerParts, hintStyle.Render("  •  "), subtitleStyle.Render(m.client.GetModel().Name))
	}
	if subtitle != "" {
		headerParts = append(headerParts, hintStyle.Render("  •  "), subtitleStyle.Render(subtitle))
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	// Messages
	var messagesContent string
	if len(m.visible()) == 0 && len(m.searches) == 0 && !m.loading {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.Width(contentWidth).Height(m.viewport.Height).Render(messagesContent))

	// Input
	var inputContent string
	if m.loading && m.streaming == "" {
		inputContent = m.renderLoadingAnimation()
	} else if m.loading {
		inputContent = loadingStyle.Render(m.spinner.View() + " 답변을 받는 중... (Esc: 취소)")
	} else {
		inputContent = lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	if m.err != nil {
		sections = append(sections, m.formatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	hint := "Start a conversation by typing a message below"
	if p, ok := m.activeProfile(); ok {
		hint = p.Placeholder
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Align(lipgloss.Center).Render("💬"),
		welcomeTitleStyle.Width(width).Align(lipgloss.Center).Render("무엇을 도와드릴까요?"),
		hintStyle.Width(width).Align(lipgloss.Center).Render(hint),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame

	spin := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(chars[frame%len(chars)])

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots += lipgloss.NewStyle().Foreground(colorPrimary).Render("●")
		} else {
			dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" 답변을 생각하는 중 ")
	return fmt.Sprintf("%s %s %s", spin, text, dots)
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+P", "Profile"},
		{"/flights", "Search"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport with the visible history, attachments,
// direct searches and the reply being streamed
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	mdOpts := m.opts.Markdown.WithWidth(bubbleWidth - 4)

	m.writeSearches(&content, 0)
	for i, msg := range m.visible() {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.Role == models.RoleUser {
			content.WriteString(userLabelStyle.Render("⬤ You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Content))
		} else {
			rendered := strings.TrimRight(render.MarkdownOrPlain(msg.Content, mdOpts), "\n")
			content.WriteString(assistantLabelStyle.Render("✦ Assistant") + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
			if att, ok := m.attachments[i]; ok {
				content.WriteString(m.renderAttachment(att, bubbleWidth))
			}
		}
		content.WriteString("\n")
		m.writeSearches(&content, i+1)
	}

	if m.loading && m.streaming != "" {
		content.WriteString("\n" + assistantLabelStyle.Render("✦ Assistant") + "\n")
		content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(m.streaming))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m Model) writeSearches(sb *strings.Builder, after int) {
	for _, s := range m.searches {
		if s.after != after {
			continue
		}
		label := fmt.Sprintf("✈ %s → %s (%s)", s.query.Origin, s.query.Destination, s.query.Date)
		sb.WriteString(attachmentLabelStyle.Render(label) + "\n")
		sb.WriteString(render.FlightTable(s.flights, render.CurrentPalette(), 0) + "\n")
	}
}

func (m Model) renderAttachment(att chat.Attachment, width int) string {
	if att.Err != nil {
		return "\n" + errorStyle.Render("⚠ 항공편 정보를 생성하지 못했습니다.")
	}
	if !att.HasFlights() {
		return ""
	}
	q := att.Intent.Query
	label := attachmentLabelStyle.Render(fmt.Sprintf("✈ 항공편 검색 결과: %s → %s (%s)", q.Origin, q.Destination, q.Date))
	return "\n" + label + "\n" + render.FlightTable(att.Flights, render.CurrentPalette(), 0)
}

func (m Model) formatError(err error) string {
	if errors.Is(err, apierrors.ErrSessionNotReady) {
		return infoStyle.Render("  챗봇 유형을 먼저 선택해주세요. (Ctrl+P)")
	}
	return FormatError(err)
}

// RunChat starts the chat TUI
func RunChat(opts Options) error {
	p := tea.NewProgram(NewChatModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stopReply()
	}
	return err
}
