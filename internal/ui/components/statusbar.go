package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusError
)

type StatusBarModel struct {
	width   int
	message string
	level   StatusLevel
	hint    string
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	level := StatusInfo
	if isError {
		level = StatusError
	}
	m.SetStatus(message, level)
}

func (m *StatusBarModel) SetStatus(message string, level StatusLevel) {
	m.message = message
	m.level = level
}

// SetHint sets the right-aligned text shown next to the message.
func (m *StatusBarModel) SetHint(hint string) {
	m.hint = hint
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.level = StatusInfo
}

func (m *StatusBarModel) Message() string {
	return m.message
}

func (m *StatusBarModel) IsError() bool {
	return m.level == StatusError
}

func (m *StatusBarModel) View() string {
	content := " " + m.message
	hint := ""
	if m.hint != "" {
		hint = m.hint + " "
	}

	room := m.width - lipgloss.Width(hint)
	if room < 0 {
		room = 0
	}
	content = fit(content, room)
	content += strings.Repeat(" ", max(0, room-lipgloss.Width(content))) + hint

	bgColor := lipgloss.Color("#374151")
	switch m.level {
	case StatusError:
		bgColor = lipgloss.Color("#991B1B")
	case StatusSuccess:
		bgColor = lipgloss.Color("#065F46")
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(bgColor).
		Width(m.width)

	return style.Render(content)
}

func fit(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		if width < 0 {
			width = 0
		}
		if width > len(runes) {
			width = len(runes)
		}
		return string(runes[:width])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
