package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Elijahuni/chatbot-1/internal/config"
	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/flights"
	"github.com/Elijahuni/chatbot-1/internal/intent"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

// profileSelector lists the available prompt profiles
type profileSelector struct {
	profiles []config.Profile
	cursor   int
}

func newProfileSelector() profileSelector {
	return profileSelector{profiles: config.Profiles()}
}

func (s *profileSelector) move(delta int) {
	n := len(s.profiles)
	if n == 0 {
		return
	}
	s.cursor = (s.cursor + delta + n) % n
}

func (s profileSelector) selected() (config.Profile, bool) {
	if s.cursor < 0 || s.cursor >= len(s.profiles) {
		return config.Profile{}, false
	}
	return s.profiles[s.cursor], true
}

func (m *Model) openProfileSelector() {
	m.screen = screenProfile
	m.textarea.Blur()
	if p, ok := m.activeProfile(); ok {
		for i, candidate := range m.selector.profiles {
			if candidate.ID == p.ID {
				m.selector.cursor = i
			}
		}
	}
}

func (m Model) updateProfileSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "shift+tab":
		m.selector.move(-1)
	case "down", "j", "tab":
		m.selector.move(1)
	case "esc":
		// Without a profile there is nothing to go back to
		if _, ok := m.activeProfile(); !ok {
			return m, tea.Quit
		}
		m.screen = screenChat
		m.textarea.Focus()
	case "enter":
		p, ok := m.selector.selected()
		if !ok {
			return m, nil
		}
		changed, err := m.bot.SelectProfile(p.ID)
		if err != nil {
			m.err = err
			return m, nil
		}
		if changed {
			m.clearTranscript()
		}
		m.err = nil
		m.applyProfile()
		m.screen = screenChat
		m.textarea.Focus()
		m.updateViewport()
		return m, nil
	}
	return m, nil
}

func (m Model) renderProfileSelector() string {
	var sb strings.Builder
	sb.WriteString(overlayTitleStyle.Render("챗봇 유형 선택"))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("원하시는 챗봇을 선택하세요:"))
	sb.WriteString("\n\n")

	active, hasActive := m.activeProfile()
	for i, p := range m.selector.profiles {
		cursor := "  "
		style := menuItemStyle
		if i == m.selector.cursor {
			cursor = menuCursorStyle.Render("▸ ")
			style = menuSelectedStyle
		}
		line := cursor + style.Render(p.Title)
		if hasActive && p.ID == active.ID {
			line += menuValueStyle.Render("  (현재)")
		}
		sb.WriteString(line + "\n")
		sb.WriteString("    " + menuValueStyle.Render(p.Description) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("↑/↓ 이동 • Enter 선택 • Esc 닫기"))
	if m.err != nil {
		sb.WriteString("\n\n" + m.formatError(m.err))
	}
	return m.centerOverlay(overlayStyle.Render(sb.String()))
}

// flight form fields
const (
	fieldOrigin = iota
	fieldDestination
	fieldDate
	fieldCount
)

var fieldLabels = [fieldCount]string{"출발지", "도착지", "날짜"}

// flightForm collects parameters for a direct flight search
type flightForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	now    func() time.Time
	err    error
}

func newFlightForm(now func() time.Time) flightForm {
	f := flightForm{now: now}
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 32
		in.Width = 24
		f.inputs[i] = in
	}
	f.inputs[fieldDate].Placeholder = flights.DateLayout
	f.reset()
	return f
}

func (f *flightForm) reset() {
	f.inputs[fieldOrigin].SetValue(intent.DefaultOrigin)
	f.inputs[fieldDestination].SetValue(intent.DefaultDestination)
	f.inputs[fieldDate].SetValue(f.now().Format(flights.DateLayout))
	f.err = nil
	f.setFocus(fieldOrigin)
}

func (f *flightForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f flightForm) query() models.FlightQuery {
	return models.FlightQuery{
		Origin:      strings.TrimSpace(f.inputs[fieldOrigin].Value()),
		Destination: strings.TrimSpace(f.inputs[fieldDestination].Value()),
		Date:        strings.TrimSpace(f.inputs[fieldDate].Value()),
	}
}

func (m *Model) openFlightForm() {
	m.form.reset()
	m.screen = screenFlights
	m.textarea.Blur()
}

func (m Model) updateFlightForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenChat
		m.textarea.Focus()
		return m, nil
	case "tab", "down":
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "enter":
		q := m.form.query()
		list, err := m.bot.DirectSearch(q.Origin, q.Destination, q.Date)
		if err != nil {
			m.form.err = err
			return m, nil
		}
		m.searches = append(m.searches, directSearch{
			after:   len(m.visible()),
			query:   q,
			flights: list,
		})
		m.screen = screenChat
		m.textarea.Focus()
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) renderFlightForm() string {
	var sb strings.Builder
	sb.WriteString(overlayTitleStyle.Render("✈ 항공편 검색"))
	sb.WriteString("\n")

	for i, in := range m.form.inputs {
		label := fieldLabelStyle.Render(fieldLabels[i])
		if i == m.form.focus {
			label = fieldFocusedStyle.Render(fieldLabels[i])
		}
		sb.WriteString(label + in.View() + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("Tab 이동 • Enter 검색 • Esc 닫기"))
	if m.form.err != nil {
		sb.WriteString("\n\n" + m.formatError(m.form.err))
	}
	return m.centerOverlay(overlayStyle.Render(sb.String()))
}

func (m Model) renderKeyEntry() string {
	var sb strings.Builder
	sb.WriteString(overlayTitleStyle.Render("🔑 OpenAI API Key"))
	sb.WriteString("\n")
	sb.WriteString(m.keyInput.View())
	sb.WriteString("\n\n")
	switch {
	case errors.Is(m.err, apierrors.ErrMissingAPIKey):
		sb.WriteString(infoStyle.Render("OpenAI API 키를 입력해주세요.") + "\n\n")
	case m.err != nil:
		sb.WriteString(m.formatError(m.err) + "\n\n")
	}
	sb.WriteString(hintStyle.Render(fmt.Sprintf("Enter 확인 • Esc 종료 • env %s", config.EnvAPIKey)))
	return m.centerOverlay(overlayStyle.Render(sb.String()))
}

func (m Model) centerOverlay(box string) string {
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
