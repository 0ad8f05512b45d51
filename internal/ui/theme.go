package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a named palette of hex colors.
type Theme struct {
	Name string

	Background    string
	Surface       string
	FocusBg       string
	SelectionBg   string
	SelectionText string
	Border        string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles contains the lipgloss styles the wizard renders with.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header       lipgloss.Style
	Footer       lipgloss.Style
	Panel        lipgloss.Style
	FocusedInput lipgloss.Style
	Selected     lipgloss.Style
}

func fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// Styles builds the style set of t.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),

		Header:       fg(t.Text).Background(lipgloss.Color(t.Surface)).Bold(true).Padding(0, 1),
		Footer:       fg(t.Muted).Padding(0, 1),
		Panel:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t.Border)).Padding(0, 1),
		FocusedInput: fg(t.Text).Background(lipgloss.Color(t.FocusBg)),
		Selected:     fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),
	}
}

// palettes lists the themes in cycle order; the first one is the fallback.
var palettes = []Theme{
	{
		// https://github.com/EdenEast/nightfox.nvim
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330", FocusBg: "#29394f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf", Border: "#39506d",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Success: "#81b29a", Warning: "#dbc074", Danger: "#c94f6d",
	},
	{
		// https://github.com/rebelot/kanagawa.nvim
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", FocusBg: "#2A2A37",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA", Border: "#54546D",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Success: "#98BB6C", Warning: "#E6C384", Danger: "#E46876",
	},
	{
		// Tailwind slate and sky
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a", FocusBg: "#283548",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc", Border: "#334155",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Success: "#22c55e", Warning: "#f59e0b", Danger: "#ef4444",
	},
}

// GetTheme returns the theme called name, or the first palette.
func GetTheme(name string) Theme {
	for _, t := range palettes {
		if t.Name == name {
			return t
		}
	}
	return palettes[0]
}

// NextTheme returns the name of the theme after current, wrapping around.
func NextTheme(current string) string {
	for i, t := range palettes {
		if t.Name == current {
			return palettes[(i+1)%len(palettes)].Name
		}
	}
	return palettes[0].Name
}

// ThemeNames returns the theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(palettes))
	for i, t := range palettes {
		names[i] = t.Name
	}
	return names
}
