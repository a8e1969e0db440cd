package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/ui/theme"
)

// NoticeKind selects the colour of a notice line.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeWarning
	NoticeError
)

// Notice is a one-line status message that does not block input.
type Notice struct {
	Text string
	Kind NoticeKind
}

// View renders the notice, or nothing when it is empty.
func (n Notice) View(width int) string {
	if n.Text == "" {
		return ""
	}
	style := lipgloss.NewStyle().Width(width)
	switch n.Kind {
	case NoticeWarning:
		style = style.Foreground(theme.Accent)
	case NoticeError:
		style = style.Foreground(theme.Error)
	default:
		style = style.Foreground(theme.Secondary)
	}
	return style.Render(n.Text)
}
