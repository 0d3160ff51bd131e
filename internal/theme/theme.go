// Package theme holds the color palettes of the terminal UI.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name string

	// Glamour style used for handler notes.
	Glamour string

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color

	Background  lipgloss.Color
	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	// Dispatch outcomes
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
}

var themes = map[string]Theme{
	"default":    Default,
	"gruvbox":    Gruvbox,
	"nord":       Nord,
	"tokyonight": TokyoNight,
	"light":      Light,
}

var Default = Theme{
	Name:        "default",
	Glamour:     "dark",
	Primary:     lipgloss.Color("#7C3AED"),
	Secondary:   lipgloss.Color("#06B6D4"),
	Accent:      lipgloss.Color("#F59E0B"),
	Text:        lipgloss.Color("#E2E8F0"),
	TextDim:     lipgloss.Color("#64748B"),
	Background:  lipgloss.Color("#0F172A"),
	Surface:     lipgloss.Color("#1E293B"),
	Border:      lipgloss.Color("#334155"),
	BorderFocus: lipgloss.Color("#7C3AED"),
	Error:       lipgloss.Color("#EF4444"),
	Success:     lipgloss.Color("#22C55E"),
	Warning:     lipgloss.Color("#F59E0B"),
	Info:        lipgloss.Color("#3B82F6"),
}

var Gruvbox = Theme{
	Name:        "gruvbox",
	Glamour:     "dark",
	Primary:     lipgloss.Color("#D65D0E"),
	Secondary:   lipgloss.Color("#689D6A"),
	Accent:      lipgloss.Color("#D79921"),
	Text:        lipgloss.Color("#EBDBB2"),
	TextDim:     lipgloss.Color("#928374"),
	Background:  lipgloss.Color("#282828"),
	Surface:     lipgloss.Color("#3C3836"),
	Border:      lipgloss.Color("#504945"),
	BorderFocus: lipgloss.Color("#D65D0E"),
	Error:       lipgloss.Color("#CC241D"),
	Success:     lipgloss.Color("#98971A"),
	Warning:     lipgloss.Color("#D79921"),
	Info:        lipgloss.Color("#458588"),
}

var Nord = Theme{
	Name:        "nord",
	Glamour:     "dark",
	Primary:     lipgloss.Color("#88C0D0"),
	Secondary:   lipgloss.Color("#81A1C1"),
	Accent:      lipgloss.Color("#EBCB8B"),
	Text:        lipgloss.Color("#ECEFF4"),
	TextDim:     lipgloss.Color("#4C566A"),
	Background:  lipgloss.Color("#2E3440"),
	Surface:     lipgloss.Color("#3B4252"),
	Border:      lipgloss.Color("#434C5E"),
	BorderFocus: lipgloss.Color("#88C0D0"),
	Error:       lipgloss.Color("#BF616A"),
	Success:     lipgloss.Color("#A3BE8C"),
	Warning:     lipgloss.Color("#EBCB8B"),
	Info:        lipgloss.Color("#5E81AC"),
}

var TokyoNight = Theme{
	Name:        "tokyonight",
	Glamour:     "tokyo-night",
	Primary:     lipgloss.Color("#7AA2F7"),
	Secondary:   lipgloss.Color("#7DCFFF"),
	Accent:      lipgloss.Color("#E0AF68"),
	Text:        lipgloss.Color("#C0CAF5"),
	TextDim:     lipgloss.Color("#565F89"),
	Background:  lipgloss.Color("#1A1B26"),
	Surface:     lipgloss.Color("#24283B"),
	Border:      lipgloss.Color("#3B4261"),
	BorderFocus: lipgloss.Color("#7AA2F7"),
	Error:       lipgloss.Color("#F7768E"),
	Success:     lipgloss.Color("#9ECE6A"),
	Warning:     lipgloss.Color("#E0AF68"),
	Info:        lipgloss.Color("#7AA2F7"),
}

var Light = Theme{
	Name:        "light",
	Glamour:     "light",
	Primary:     lipgloss.Color("#6D28D9"),
	Secondary:   lipgloss.Color("#0891B2"),
	Accent:      lipgloss.Color("#B45309"),
	Text:        lipgloss.Color("#1E293B"),
	TextDim:     lipgloss.Color("#64748B"),
	Background:  lipgloss.Color("#F8FAFC"),
	Surface:     lipgloss.Color("#E2E8F0"),
	Border:      lipgloss.Color("#CBD5E1"),
	BorderFocus: lipgloss.Color("#6D28D9"),
	Error:       lipgloss.Color("#B91C1C"),
	Success:     lipgloss.Color("#15803D"),
	Warning:     lipgloss.Color("#B45309"),
	Info:        lipgloss.Color("#1D4ED8"),
}

// Current is the active theme.
var Current = Default

// Set changes the active theme by name.
func Set(name string) bool {
	if t, ok := themes[name]; ok {
		Current = t
		return true
	}
	return false
}

// List returns all available theme names, sorted.
func List() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
