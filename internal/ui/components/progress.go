package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/ui/theme"
)

// lowTimeFraction turns the bar red when less than this share is left.
const lowTimeFraction = 0.2

// TimeBar shows the remaining time of a round as a clock and a draining bar.
type TimeBar struct {
	Clock     string
	Remaining int
	Total     int
	Width     int
}

// NewTimeBar creates a new time bar.
func NewTimeBar(clock string, remaining, total, width int) TimeBar {
	return TimeBar{
		Clock:     clock,
		Remaining: remaining,
		Total:     total,
		Width:     width,
	}
}

// Fraction returns the share of time left in [0, 1].
func (p TimeBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Remaining) / float64(p.Total)
	return min(max(f, 0), 1)
}

// View renders the time bar.
func (p TimeBar) View() string {
	low := p.Fraction() < lowTimeFraction

	clockStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if low {
		clockStyle = clockStyle.Foreground(theme.Error)
	}
	result := clockStyle.Render("⏱ "+p.Clock) + "  "

	barWidth := p.Width - lipgloss.Width(result)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	fill := theme.ProgressFilled
	if low {
		fill = theme.ProgressLow
	}
	return result +
		fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
}
