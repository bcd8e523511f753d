package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// ContentWidth returns the inner width used for boxed sections, clamped
// to 20..60 columns.
func ContentWidth(frameWidth int) int {
	// border (2) + padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// Card wraps lines in a rounded box of the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 2).
		Render(content)
}
