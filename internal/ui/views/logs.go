package views

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/repodeck/internal/logger"
)

type LogsViewModel struct {
	width      int
	height     int
	offset     int
	active     bool
	errorsOnly bool
	logs       []logger.LogEntry
	source     func() []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{source: logger.GetLogs}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.reload()
	m.scrollToEnd()
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

func (m *LogsViewModel) reload() {
	all := m.source()
	if !m.errorsOnly {
		m.logs = all
		return
	}
	var filtered []logger.LogEntry
	for _, e := range all {
		if e.Level >= slog.LevelError {
			filtered = append(filtered, e)
		}
	}
	m.logs = filtered
}

func (m *LogsViewModel) visibleLines() int {
	return max(1, m.height-8)
}

func (m *LogsViewModel) maxOffset() int {
	return max(0, len(m.logs)-m.visibleLines())
}

func (m *LogsViewModel) scrollToEnd() {
	m.offset = m.maxOffset()
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.offset < m.maxOffset() {
			m.offset++
		}
	case "pgup":
		m.offset = max(0, m.offset-m.visibleLines())
	case "pgdown":
		m.offset = min(m.maxOffset(), m.offset+m.visibleLines())
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.scrollToEnd()
	case "e":
		m.errorsOnly = !m.errorsOnly
		m.reload()
		m.scrollToEnd()
	case "r":
		m.reload()
		m.scrollToEnd()
	}

	return nil
}

func levelColor(level slog.Level) lipgloss.Color {
	switch {
	case level >= slog.LevelError:
		return lipgloss.Color("#EF4444")
	case level >= slog.LevelWarn:
		return lipgloss.Color("#F59E0B")
	case level < slog.LevelInfo:
		return lipgloss.Color("#10B981")
	default:
		return lipgloss.Color("#E5E7EB")
	}
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("Session Logs (%d entries)", len(m.logs))
	if m.errorsOnly {
		title += " - errors only"
	}
	b.WriteString(titleStyle.Padding(1, 0).Render(title))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		b.WriteString(mutedStyle.Render("No logs yet"))
	} else {
		end := min(len(m.logs), m.offset+m.visibleLines())
		for _, entry := range m.logs[m.offset:end] {
			line := fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.String())
			b.WriteString(lipgloss.NewStyle().Foreground(levelColor(entry.Level)).Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	scrollInfo := ""
	if len(m.logs) > m.visibleLines() {
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, min(len(m.logs), m.offset+m.visibleLines()), len(m.logs))
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | e: Errors only | r: Reload | Esc: Close%s", scrollInfo)))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(max(0, m.width-4))

	return boxStyle.Render(b.String())
}
