package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the simulator view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Heads   lipgloss.Color
	Tails   lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Bar     lipgloss.Color
}

var (
	ThemeLight = Theme{
		Name:    "light",
		Primary: lipgloss.Color("#005f87"),
		Heads:   lipgloss.Color("#af8700"), // gold
		Tails:   lipgloss.Color("#5f5faf"), // silver-blue
		Text:    lipgloss.Color("#1c1c1c"),
		Muted:   lipgloss.Color("#808080"),
		Border:  lipgloss.Color("#bcbcbc"),
		Bar:     lipgloss.Color("#00875f"),
	}

	ThemeDark = Theme{
		Name:    "dark",
		Primary: lipgloss.Color("#00ffff"),
		Heads:   lipgloss.Color("#ffd700"),
		Tails:   lipgloss.Color("#87afff"),
		Text:    lipgloss.Color("#eeeeee"),
		Muted:   lipgloss.Color("#666688"),
		Border:  lipgloss.Color("#444466"),
		Bar:     lipgloss.Color("#00ff88"),
	}

	Themes = []Theme{ThemeLight, ThemeDark}
)

// GetTheme returns a theme by name, falling back to the light theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLight
}

func (t Theme) toggled() Theme {
	if t.Name == ThemeDark.Name {
		return ThemeLight
	}
	return ThemeDark
}

type styles struct {
	title, label, value, muted, heads, tails, bar, panel lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		label: lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		value: lipgloss.NewStyle().Foreground(t.Text).Width(12),
		muted: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		heads: lipgloss.NewStyle().Bold(true).Foreground(t.Heads),
		tails: lipgloss.NewStyle().Bold(true).Foreground(t.Tails),
		bar:   lipgloss.NewStyle().Foreground(t.Bar),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
