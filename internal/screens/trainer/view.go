package trainer

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/export"
	"github.com/abhisek/drillz/internal/session"
	"github.com/abhisek/drillz/internal/ui/components"
	"github.com/abhisek/drillz/internal/ui/layout"
	"github.com/abhisek/drillz/internal/ui/theme"
)

// maxContentWidth caps the card column on wide terminals.
const maxContentWidth = 90

func (s *TrainerScreen) View(width, height int) string {
	r := s.sess.Round()
	if r == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Preparing round...")
	}

	w := min(width-4, maxContentWidth)
	var top []string

	if sub := s.sess.Settings().Subtitle; sub != "" {
		top = append(top, theme.Subtitle.Width(w).Render(sub))
	}

	cd := s.sess.Countdown()
	top = append(top, components.NewTimeBar(cd.Clock(), cd.Remaining(), cd.Total(), w).View())

	if n := s.notice.View(w); n != "" {
		top = append(top, n)
	}

	var bottom []string
	if r.Finished && r.Result != nil {
		bottom = append(bottom, renderResult(*r.Result))
	}
	bottom = append(bottom, s.renderButtons(layout.IsCompactWidth(width)))

	// Cards scroll so that the focused one stays visible.
	cards, anchor := s.renderCards(r, w)
	avail := height - lipgloss.Height(strings.Join(top, "\n")) - lipgloss.Height(strings.Join(bottom, "\n")) - 2
	cards = clip(cards, anchor, avail)

	body := strings.Join(top, "\n") + "\n\n" +
		strings.Join(cards, "\n") + "\n" +
		strings.Join(bottom, "\n")

	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(max((width-w)/2, 0)).
		Render(body)
}

// renderCards returns the card lines and the index of the first line of
// the focused card.
func (s *TrainerScreen) renderCards(r *session.Round, width int) ([]string, int) {
	var lines []string
	anchor := 0
	for i, c := range r.Cards {
		if i == s.focus {
			anchor = len(lines)
		}
		lines = append(lines, strings.Split(s.renderCard(i, c, width), "\n")...)
	}
	return lines, anchor
}

func (s *TrainerScreen) renderCard(i int, c *session.Card, width int) string {
	style := theme.Card
	if i == s.focus {
		style = theme.FocusedCard
	}
	inner := width - style.GetHorizontalFrameSize()

	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%d.", i+1)) + " " +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(c.Type())

	question := lipgloss.NewStyle().Foreground(theme.Text).Width(inner).
		Render(export.PlainText(c.Question()))

	parts := []string{heading, question}
	if i < len(s.inputs) {
		parts = append(parts, s.inputs[i].View())
	}
	if s.finished() {
		fb := theme.Incorrect
		if c.Verdict.Correct {
			fb = theme.Correct
		}
		parts = append(parts, fb.Width(inner).Render(c.Feedback()))
	}

	return style.Width(width).Render(strings.Join(parts, "\n"))
}

func renderResult(res session.Result) string {
	text := res.Summary()
	if res.Reason == session.ReasonTimeout {
		text += "  " + theme.Warning.Render("(time is up)")
	}
	return theme.Results.Render(text)
}

// renderButtons draws the action row. Compact terminals drop the key
// labels; the footer still lists them.
func (s *TrainerScreen) renderButtons(compact bool) string {
	key := func(k string) string {
		if compact {
			return ""
		}
		return k
	}
	buttons := []components.Button{
		components.NewButton("Check", key("Ctrl+S"), !s.finished()),
		components.NewButton("New round", key("Ctrl+R"), true),
		components.NewButton("PDF", key("Ctrl+P"), true),
		components.NewButton("XLSX", key("Ctrl+E"), true),
	}
	views := make([]string, 0, 2*len(buttons))
	for i, b := range buttons {
		if i > 0 {
			views = append(views, " ")
		}
		views = append(views, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}

// clip returns at most height lines of lines, scrolled so that line
// anchor is visible.
func clip(lines []string, anchor, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := min(anchor, len(lines)-height)
	return lines[start : start+height]
}
