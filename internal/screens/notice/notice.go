package notice

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/screen"
	"github.com/abhisek/drillz/internal/topic"
	"github.com/abhisek/drillz/internal/ui/layout"
	"github.com/abhisek/drillz/internal/ui/theme"
)

// Kind selects the message shown by a NoticeScreen.
type Kind int

const (
	KindLoading Kind = iota
	KindNoTopic
	KindNotFound
	KindMalformed
	KindError
)

// NoticeScreen replaces the whole content area with a message. Apart from
// the loading notice, it is terminal: it accepts no input and only the
// global quit key leaves it.
type NoticeScreen struct {
	kind   Kind
	topic  string
	detail string
	topics []string
}

var _ screen.Screen = (*NoticeScreen)(nil)
var _ screen.KeyHintProvider = (*NoticeScreen)(nil)

// Loading returns the notice shown while a topic file is being loaded.
func Loading(name string) *NoticeScreen {
	return &NoticeScreen{kind: KindLoading, topic: name}
}

// NoTopic returns the instructions shown when no topic was given. The
// available topic names are listed as examples.
func NoTopic(available []string) *NoticeScreen {
	return &NoticeScreen{kind: KindNoTopic, topics: available}
}

// ForError maps a topic load error to the matching notice.
func ForError(err error) *NoticeScreen {
	var nf *topic.NotFoundError
	var mf *topic.MalformedError
	switch {
	case errors.Is(err, topic.ErrNoTopic):
		return NoTopic(nil)
	case errors.As(err, &nf):
		return &NoticeScreen{kind: KindNotFound, topic: nf.Name, detail: nf.Err.Error()}
	case errors.As(err, &mf):
		return &NoticeScreen{kind: KindMalformed, topic: mf.Name, detail: mf.Err.Error()}
	default:
		return &NoticeScreen{kind: KindError, detail: err.Error()}
	}
}

// Kind returns the notice kind.
func (n *NoticeScreen) Kind() Kind { return n.kind }

func (n *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (n *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return n, nil
}

func (n *NoticeScreen) Title() string {
	switch n.kind {
	case KindLoading:
		return "Loading"
	case KindNoTopic:
		return "No topic"
	default:
		return "Error"
	}
}

func (n *NoticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (n *NoticeScreen) View(width, height int) string {
	var heading string
	var headingStyle lipgloss.Style
	var body []string

	switch n.kind {
	case KindLoading:
		heading = "Loading topic…"
		headingStyle = theme.Subtitle
		body = append(body, fmt.Sprintf("Reading %q", n.topic))

	case KindNoTopic:
		heading = "No topic selected"
		headingStyle = theme.Title
		body = append(body,
			"Start drillz with the name of a topic file:",
			"",
			"    drillz --topic arithmetic",
			"",
			"drillz looks for <topic>.yaml in the topics directory",
			"(--topics-dir or DRILLZ_TOPICS_DIR) and then in its built-in topics.",
		)
		if len(n.topics) > 0 {
			body = append(body, "", "Available: "+strings.Join(n.topics, ", "))
		}

	case KindNotFound:
		heading = "Topic file not found"
		headingStyle = theme.Incorrect
		body = append(body,
			fmt.Sprintf("No file for topic %q.", n.topic),
			"Check the topic name and the topics directory.",
		)

	case KindMalformed:
		heading = "Topic file is malformed"
		headingStyle = theme.Incorrect
		body = append(body,
			fmt.Sprintf("%q must define settings, tasks and a check section.", n.topic),
			"",
			n.detail,
		)

	default:
		heading = "Something went wrong"
		headingStyle = theme.Incorrect
		body = append(body, n.detail)
	}

	text := headingStyle.Render(heading) + "\n\n" +
		lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(min(width-4, 76)).
			Render(strings.Join(body, "\n"))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(text)
}
