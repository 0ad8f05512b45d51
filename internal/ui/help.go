package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const helpWidth = 44

// helpGroups names the columns of keyMap.FullHelp, plus the list filter key
// which bubbles/list binds itself.
func (m Model) helpGroups() []helpGroup {
	full := m.keys.FullHelp()
	filter := key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Filter choices"))
	return []helpGroup{
		{"Choosing", append([]key.Binding{filter}, full[0]...)},
		{"Time windows", full[1]},
		{"General", full[2]},
	}
}

type helpGroup struct {
	title    string
	bindings []key.Binding
}

// renderHelp draws the key reference centered over the whole window.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := fg(m.theme.Warning).Width(14)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keys"))
	b.WriteString("\n\n")
	for i, g := range m.helpGroups() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.AccentText.Bold(true).Render(g.title))
		b.WriteString("\n")
		for _, binding := range g.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(strings.Join(binding.Keys(), "/")))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	box := styles.Panel.
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(helpWidth).
		Render(strings.TrimRight(b.String(), "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
