package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/pagehook/internal/theme"
)

// InputMode says what the URL bar's value will be used for.
type InputMode int

const (
	InputOpen    InputMode = iota // full page load
	InputPush                     // history.pushState
	InputReplace                  // history.replaceState
)

func (m InputMode) label() string {
	switch m {
	case InputPush:
		return "push"
	case InputReplace:
		return "replace"
	default:
		return "open"
	}
}

// URLBar is the URL input bar at the top of the screen.
type URLBar struct {
	input  textinput.Model
	mode   InputMode
	active bool
	width  int
}

// NewURLBar creates a new URL bar.
func NewURLBar() URLBar {
	ti := textinput.New()
	ti.Placeholder = "Enter URL..."
	ti.CharLimit = 2048
	ti.Width = 60

	return URLBar{input: ti}
}

// SetWidth updates the URL bar width.
func (u *URLBar) SetWidth(w int) {
	u.width = w
	u.input.Width = w - 16 // prompt, mode label and padding
}

// Focus activates the URL bar for input in the given mode.
func (u *URLBar) Focus(mode InputMode) tea.Cmd {
	u.mode = mode
	u.active = true
	u.input.CursorEnd()
	return u.input.Focus()
}

// Blur deactivates the URL bar.
func (u *URLBar) Blur() {
	u.active = false
	u.input.Blur()
}

// IsActive reports whether the URL bar is focused.
func (u *URLBar) IsActive() bool { return u.active }

// Mode returns the mode the bar was focused with.
func (u *URLBar) Mode() InputMode { return u.mode }

// Value returns the current input text.
func (u *URLBar) Value() string { return u.input.Value() }

// SetValue sets the URL bar text.
func (u *URLBar) SetValue(s string) { u.input.SetValue(s) }

// Update handles messages for the URL bar.
func (u *URLBar) Update(msg tea.Msg) tea.Cmd {
	if !u.active {
		return nil
	}
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return cmd
}

// View renders the URL bar.
func (u *URLBar) View() string {
	t := theme.Current

	border := t.Border
	fg := t.TextDim
	if u.active {
		border = t.BorderFocus
		fg = t.Text
	}

	barStyle := lipgloss.NewStyle().
		Foreground(fg).
		Background(t.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(u.width - 2)

	labelStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1)

	label := "url"
	if u.active {
		label = u.mode.label()
	}

	return barStyle.Render(labelStyle.Render(label) + " " + u.input.View())
}
