package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/router"
	"github.com/abhisek/drillz/internal/screen"
	"github.com/abhisek/drillz/internal/store"
	"github.com/abhisek/drillz/internal/ui/layout"
	"github.com/abhisek/drillz/internal/ui/theme"
)

// listLimit is the number of rounds loaded into the screen.
const listLimit = 50

// ChangeMsg is implemented by messages that report a write to the round
// repository. A visible history screen reloads when Changed returns true.
type ChangeMsg interface {
	Changed() bool
}

type historyLoadedMsg struct {
	Rounds []store.RoundRecord
	Err    error
}

type answersLoadedMsg struct {
	ID      string
	Answers []store.AnswerRecord
	Err     error
}

// HistoryScreen lists past rounds of a topic. Enter expands a round into
// its graded answers.
type HistoryScreen struct {
	repo     store.RoundRepo
	topic    string
	rounds   []store.RoundRecord
	answers  map[string][]store.AnswerRecord
	selected int
	expanded map[string]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. An empty topic lists rounds of every topic.
func New(repo store.RoundRepo, topic string) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		topic:    topic,
		answers:  make(map[string][]store.AnswerRecord),
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	repo, topic := s.repo, s.topic
	return func() tea.Msg {
		rounds, err := repo.Recent(context.Background(), store.QueryOpts{Topic: topic, Limit: listLimit})
		return historyLoadedMsg{Rounds: rounds, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.rounds = msg.Rounds
			s.selected = min(s.selected, max(len(s.rounds)-1, 0))
		}
		s.loaded = true
		return s, nil

	case ChangeMsg:
		if !msg.Changed() {
			return s, nil
		}
		return s, s.load()

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.ID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.rounds)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			return s, s.toggle()
		}
	}
	return s, nil
}

// toggle expands or collapses the selected round, loading its answers the
// first time.
func (s *HistoryScreen) toggle() tea.Cmd {
	if s.selected >= len(s.rounds) {
		return nil
	}
	id := s.rounds[s.selected].ID
	s.expanded[id] = !s.expanded[id]
	if !s.expanded[id] {
		return nil
	}
	if _, ok := s.answers[id]; ok {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		rec, err := repo.Get(context.Background(), id)
		if err != nil {
			return answersLoadedMsg{ID: id, Err: err}
		}
		if rec == nil {
			return answersLoadedMsg{ID: id}
		}
		return answersLoadedMsg{ID: id, Answers: rec.Answers}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.rounds) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No rounds yet. Check a round to record it.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.rounds {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-20s  %d of %d  %s",
			prefix, r.FinishedAt.Format("Jan 02 15:04"), r.Title, r.Correct, r.Total,
			formatDuration(int(r.FinishedAt.Sub(r.StartedAt).Seconds())))
		if r.Reason == "timeout" {
			line += "  (timeout)"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[r.ID] {
			b.WriteString(s.renderAnswers(r.ID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(id string, width int) string {
	answers, ok := s.answers[id]
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("    Loading...")) + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		mark, style := "✓", theme.Correct
		if !a.Correct {
			mark, style = "✗", theme.Incorrect
		}
		given := a.LearnerAnswer
		if given == "" {
			given = "(blank)"
		}
		line := fmt.Sprintf("    %s %d. %s = %s (%s)", mark, a.Position, a.Question, given, a.CorrectAnswer)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.UnsetBold().Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
