package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/pagehook/internal/dispatch"
	"github.com/vidyasagar/pagehook/internal/theme"
)

// maxLogEntries bounds the dispatch log.
const maxLogEntries = 200

// EventLog lists settled dispatch attempts, newest first.
type EventLog struct {
	events  []dispatch.Event
	cursor  int
	offset  int
	width   int
	height  int
	visible bool
}

// NewEventLog creates an empty log.
func NewEventLog() EventLog {
	return EventLog{}
}

// Add records ev at the top of the log.
func (l *EventLog) Add(ev dispatch.Event) {
	l.events = append([]dispatch.Event{ev}, l.events...)
	if len(l.events) > maxLogEntries {
		l.events = l.events[:maxLogEntries]
	}
	if l.cursor > 0 {
		l.cursor++
		if l.cursor >= len(l.events) {
			l.cursor = len(l.events) - 1
		}
		l.ensureVisible()
	}
}

// Len returns how many events are kept.
func (l *EventLog) Len() int { return len(l.events) }

func (l *EventLog) SetSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *EventLog) IsVisible() bool { return l.visible }

// Toggle switches visibility.
func (l *EventLog) Toggle() {
	l.visible = !l.visible
}

func (l *EventLog) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
		l.ensureVisible()
	}
}

func (l *EventLog) CursorDown() {
	if l.cursor < len(l.events)-1 {
		l.cursor++
		l.ensureVisible()
	}
}

// Selected returns the event under the cursor.
func (l *EventLog) Selected() (dispatch.Event, bool) {
	if l.cursor < 0 || l.cursor >= len(l.events) {
		return dispatch.Event{}, false
	}
	return l.events[l.cursor], true
}

// visibleCount is how many entries fit below the two header lines.
func (l *EventLog) visibleCount() int {
	if n := l.height - 2; n > 0 {
		return n
	}
	return 1
}

func (l *EventLog) ensureVisible() {
	visible := l.visibleCount()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
}

// View renders the log panel.
func (l *EventLog) View() string {
	if !l.visible {
		return ""
	}
	t := theme.Current

	panel := lipgloss.NewStyle().Width(l.width).Height(l.height)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Background(t.Surface).
		Width(l.width).
		Padding(0, 1)
	row := lipgloss.NewStyle().Foreground(t.Text).Width(l.width).Padding(0, 1)
	selected := row.Background(t.Surface).Bold(true)

	var sb strings.Builder
	sb.WriteString(header.Render(fmt.Sprintf("Dispatch log (%d)", len(l.events))) + "\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", max(l.width-2, 1))) + "\n")

	if len(l.events) == 0 {
		sb.WriteString(row.Foreground(t.TextDim).Render("Nothing dispatched yet."))
		return panel.Render(sb.String())
	}

	end := min(l.offset+l.visibleCount(), len(l.events))
	for i := l.offset; i < end; i++ {
		style := row
		marker := "  "
		if i == l.cursor {
			style = selected
			marker = "▸ "
		}
		sb.WriteString(style.Render(marker+l.formatEvent(l.events[i])) + "\n")
	}
	return panel.Render(sb.String())
}

func (l *EventLog) formatEvent(ev dispatch.Event) string {
	t := theme.Current

	color := t.Success
	switch ev.Outcome {
	case dispatch.Suppressed:
		color = t.Warning
	case dispatch.NoHandler:
		color = t.TextDim
	case dispatch.HandlerFailed:
		color = t.Error
	}
	outcome := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%-14s", ev.Outcome.String()))

	url := ev.URL
	if maxURL := l.width - 32; maxURL > 10 && len(url) > maxURL {
		url = url[:maxURL-3] + "..."
	}

	line := fmt.Sprintf("%s %s %s", ev.At.Format("15:04:05"), outcome, url)
	if ev.Duration > 0 {
		line += " " + ev.Duration.Round(time.Millisecond).String()
	}
	if ev.Err != nil {
		line += " (" + ev.Err.Error() + ")"
	}
	return line
}
