package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ScoreBar renders a visual progress bar for a 0-100 test health score.
// Example: "████████░░ 80/100"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((score / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case score >= 70:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case score >= 40:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.0f/100", score)))
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// CountStyle picks a style for a finding count: muted for zero, warning for
// a handful, error beyond threshold.
func CountStyle(n, threshold int) lipgloss.Style {
	switch {
	case n == 0:
		return StyleMuted
	case n > threshold:
		return StyleError
	default:
		return StyleWarning
	}
}

// ImpactStyle maps a low/medium/high impact label to a style.
func ImpactStyle(impact string) lipgloss.Style {
	switch impact {
	case "high":
		return StyleError
	case "medium":
		return StyleWarning
	default:
		return StyleMuted
	}
}
