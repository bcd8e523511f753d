package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu. Movement skips disabled items and
// wraps at either end.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.step(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// step returns the next enabled index in direction dir (+1 or -1),
// wrapping around. It returns Selected when nothing else is enabled.
func (m Menu) step(dir int) int {
	n := len(m.Items)
	for i := 1; i <= n; i++ {
		idx := ((m.Selected+dir*i)%n + n) % n
		if !m.Items[idx].Disabled {
			return idx
		}
	}
	return m.Selected
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.step(-1)
	case "down", "j":
		m.Selected = m.step(1)
	case "home", "g":
		m.Selected = -1
		m.Selected = m.step(1)
	case "end", "G":
		m.Selected = len(m.Items)
		m.Selected = m.step(-1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + item.Label))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
