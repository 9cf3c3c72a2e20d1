package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/logger"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/ui/style"
)

// logPanel shows the tail of the in-memory log buffer
type logPanel struct {
	buffer   *logger.LogBuffer
	viewport viewport.Model
	visible  bool
}

func newLogPanel(buffer *logger.LogBuffer) *logPanel {
	return &logPanel{
		buffer:   buffer,
		viewport: viewport.New(60, 5),
		visible:  true,
	}
}

func (p *logPanel) SetSize(width, height int) {
	p.viewport.Width = max(width-4, 10)
	p.viewport.Height = max(height, 2)
}

func (p *logPanel) Toggle() {
	p.visible = !p.visible
}

func (p *logPanel) View() string {
	if !p.visible {
		return ""
	}

	p.refresh()
	content := lipgloss.JoinVertical(lipgloss.Left,
		style.SubHeaderStyle.Render("Recent Logs"),
		p.viewport.View(),
	)
	return style.PanelStyle.Render(content)
}

// refresh loads the latest entries and keeps the view scrolled to the end
func (p *logPanel) refresh() {
	if p.buffer == nil {
		p.viewport.SetContent(style.MutedStyle.Render("No log buffer available"))
		return
	}

	entries := p.buffer.GetRecentLogs(50)
	if len(entries) == 0 {
		p.viewport.SetContent(style.MutedStyle.Render("No logs yet"))
		return
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, formatEntry(entry))
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoBottom()
}

func formatEntry(entry logger.LogEntry) string {
	levelStyle := style.MutedStyle
	switch strings.ToLower(entry.Level) {
	case "error", "fatal", "panic":
		levelStyle = style.ErrorStyle
	case "warn":
		levelStyle = style.WarningStyle
	case "info":
		levelStyle = style.ValueStyle
	}

	ts := entry.Timestamp.Format("15:04:05")
	return fmt.Sprintf("%s %s %s",
		style.MutedStyle.Render(ts),
		levelStyle.Render(fmt.Sprintf("%-5s", strings.ToUpper(entry.Level))),
		entry.Message)
}
