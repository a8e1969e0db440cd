package session

import (
	"time"

	"github.com/abhisek/drillz/internal/topic"
)

// Reason records what ended a round.
type Reason string

const (
	ReasonManual  Reason = "manual"  // the learner pressed check
	ReasonTimeout Reason = "timeout" // the countdown reached zero
)

// Card is one displayed problem of a round.
type Card struct {
	// Task is the topic task the problem was generated from.
	Task topic.Task

	// Generated holds the problem text and its generation variables.
	Generated topic.GeneratedTask

	// Err is set when generation failed. The card still counts toward the
	// total and is always graded wrong.
	Err error

	// Answer is the learner's input, trimmed at check time.
	Answer string

	// Verdict is filled in by the check pass.
	Verdict topic.Verdict
}

// Type returns the task type of the card.
func (c *Card) Type() string { return c.Task.Type() }

// Question returns the problem markup, or an error note if generation failed.
func (c *Card) Question() string {
	if c.Err != nil {
		return "(could not generate problem: " + c.Err.Error() + ")"
	}
	return c.Generated.ProblemText
}

// Feedback returns the per-card feedback shown after the check.
func (c *Card) Feedback() string {
	if c.Verdict.Correct {
		return "Correct!"
	}
	return "Wrong. Correct answer: " + c.Verdict.CorrectAnswerText
}

// Round is one rendered set of sampled tasks plus its countdown.
type Round struct {
	// ID is a UUID identifying the round in history.
	ID string

	// Cards are the displayed problems in display order.
	Cards []*Card

	StartedAt  time.Time
	FinishedAt time.Time

	// Finished is set by the first check pass. Later passes are no-ops.
	Finished bool

	// Result is nil until the round is finished.
	Result *Result
}

// Duration returns how long the round ran, or zero if it is still running.
func (r *Round) Duration() time.Duration {
	if !r.Finished {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
