// Package export writes a round to printable and spreadsheet formats.
package export

import (
	"strings"
	"time"

	"github.com/abhisek/drillz/internal/session"
)

// NoAnswer is printed in place of an empty learner answer.
const NoAnswer = "no answer"

// Item is one exported problem.
type Item struct {
	Number        int
	Type          string
	Question      string // plain text, markup removed
	Answer        string // trimmed learner input, empty when unanswered
	CorrectAnswer string

	// Checked is true when the round was graded; Correct is only
	// meaningful then.
	Checked bool
	Correct bool
}

// AnswerText returns the learner's answer or NoAnswer.
func (it Item) AnswerText() string {
	if it.Answer == "" {
		return NoAnswer
	}
	return it.Answer
}

// Report is the exported view of a round.
type Report struct {
	Title    string
	Subtitle string
	Topic    string
	RoundID  string
	Created  time.Time
	Items    []Item

	// Result is nil for a round that was not checked.
	Result *session.Result
}

// FromSession builds a report of the session's current round. Correct
// answers are filled in even when the round has not been checked yet.
func FromSession(s *session.Session, now time.Time) Report {
	settings := s.Settings()
	rep := Report{
		Title:    settings.DisplayTitle(),
		Subtitle: settings.Subtitle,
		Topic:    s.Module().Name,
		Created:  now,
	}

	r := s.Round()
	if r == nil {
		return rep
	}
	rep.RoundID = r.ID
	rep.Result = r.Result

	validator := s.Module().Validator
	for i, c := range r.Cards {
		it := Item{
			Number:   i + 1,
			Type:     c.Type(),
			Question: PlainText(c.Question()),
			Answer:   strings.TrimSpace(c.Answer),
			Checked:  r.Finished,
		}
		switch {
		case r.Finished:
			it.CorrectAnswer = c.Verdict.CorrectAnswerText
			it.Correct = c.Verdict.Correct
		case c.Err != nil:
			it.CorrectAnswer = "?"
		default:
			it.CorrectAnswer = validator.Check("", c.Task, c.Generated.Variables).CorrectAnswerText
		}
		rep.Items = append(rep.Items, it)
	}
	return rep
}

// FileName derives the output file name from a title: spaces become
// underscores and ext is appended. Path separators are replaced too.
func FileName(title, ext string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Trainer"
	}
	r := strings.NewReplacer(" ", "_", "/", "_", `\`, "_")
	return r.Replace(title) + ext
}
