package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/pagehook/internal/dispatch"
	"github.com/vidyasagar/pagehook/internal/theme"
)

// StatusBar shows page and dispatch state at the bottom of the screen.
type StatusBar struct {
	mode       string
	title      string
	message    string
	isError    bool
	loading    bool
	pending    bool
	stats      dispatch.Stats
	scrollInfo string
	width      int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() StatusBar {
	return StatusBar{mode: "NORMAL"}
}

func (s *StatusBar) SetWidth(w int)             { s.width = w }
func (s *StatusBar) SetMode(mode string)        { s.mode = mode }
func (s *StatusBar) SetTitle(title string)      { s.title = title }
func (s *StatusBar) SetLoading(loading bool)    { s.loading = loading }
func (s *StatusBar) SetPending(pending bool)    { s.pending = pending }
func (s *StatusBar) SetStats(st dispatch.Stats) { s.stats = st }
func (s *StatusBar) SetScrollInfo(info string)  { s.scrollInfo = info }
func (s *StatusBar) SetMessage(msg string)      { s.message, s.isError = msg, false }
func (s *StatusBar) SetError(err error)         { s.message, s.isError = err.Error(), true }
func (s *StatusBar) ClearMessage()              { s.message, s.isError = "", false }

// View renders the status bar.
func (s *StatusBar) View() string {
	t := theme.Current

	modeBg := t.Primary
	if s.mode == "INSERT" {
		modeBg = t.Success
	} else if s.mode == "LOG" {
		modeBg = t.Secondary
	}
	mode := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Background).
		Background(modeBg).
		Padding(0, 1).
		Render(s.mode)

	cell := lipgloss.NewStyle().Background(t.Surface).Padding(0, 1)

	var left string
	switch {
	case s.loading:
		left = cell.Foreground(t.Warning).Bold(true).Render("Loading...")
	case s.message != "" && s.isError:
		left = cell.Foreground(t.Error).Render(s.message)
	case s.message != "":
		left = cell.Foreground(t.Info).Render(s.message)
	case s.title != "":
		left = cell.Foreground(t.Text).Render(s.title)
	}

	var right strings.Builder
	if s.pending {
		right.WriteString(cell.Foreground(t.Accent).Render("pending"))
	}
	right.WriteString(cell.Foreground(t.TextDim).Render(fmt.Sprintf("sig %d", s.stats.Signals)))
	right.WriteString(cell.Foreground(t.Success).Render(fmt.Sprintf("ran %d", s.stats.Dispatched)))
	if s.stats.Suppressed > 0 {
		right.WriteString(cell.Foreground(t.Warning).Render(fmt.Sprintf("dup %d", s.stats.Suppressed)))
	}
	if s.stats.Failed > 0 {
		right.WriteString(cell.Foreground(t.Error).Render(fmt.Sprintf("err %d", s.stats.Failed)))
	}
	if s.scrollInfo != "" {
		right.WriteString(cell.Foreground(t.Secondary).Bold(true).Render(s.scrollInfo))
	}

	spacerWidth := s.width - lipgloss.Width(mode) - lipgloss.Width(left) - lipgloss.Width(right.String())
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", spacerWidth))

	return mode + left + spacer + right.String()
}
