package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Cell      lipgloss.Color
	Inner     lipgloss.Color
	Next      lipgloss.Color
	Key       lipgloss.Color
	CodeLine  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Cell:      lipgloss.Color("#808080"),
		Inner:     lipgloss.Color("#ff0000"),
		Next:      lipgloss.Color("#1f51ff"),
		Key:       lipgloss.Color("#00ff00"),
		CodeLine:  lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Cell:      lipgloss.Color("#003300"),
		Inner:     lipgloss.Color("#ffff00"),
		Next:      lipgloss.Color("#00aa88"),
		Key:       lipgloss.Color("#88ff88"),
		CodeLine:  lipgloss.Color("#002200"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Cell:      lipgloss.Color("#333333"),
		Inner:     lipgloss.Color("#aa0000"),
		Next:      lipgloss.Color("#0055aa"),
		Key:       lipgloss.Color("#00aa00"),
		CodeLine:  lipgloss.Color("#222222"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Cell:      lipgloss.Color("#003366"),
		Inner:     lipgloss.Color("#ff4444"),
		Next:      lipgloss.Color("#00a8cc"),
		Key:       lipgloss.Color("#00ff88"),
		CodeLine:  lipgloss.Color("#001a33"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Cell:      lipgloss.Color("#5a3a5b"),
		Inner:     lipgloss.Color("#ff4757"),
		Next:      lipgloss.Color("#feca57"),
		Key:       lipgloss.Color("#5fd068"),
		CodeLine:  lipgloss.Color("#2d1b2e"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, defaulting to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme cycles to the theme after name.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
