// Package session holds the state of a trainer session: the loaded topic,
// the current round, its countdown and the answer check pass.
package session

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/drillz/internal/topic"
)

// Session is created once per loaded topic and reset on every new round.
// It is not safe for concurrent use; the UI event loop owns it.
type Session struct {
	module    *topic.Module
	rng       *rand.Rand
	now       func() time.Time
	logger    *slog.Logger
	countdown *Countdown
	round     *Round
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for sampling and generation.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithClock overrides time.Now for round timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a Session for a validated topic module. No round is started.
func New(m *topic.Module, opts ...Option) *Session {
	s := &Session{
		module:    m,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
		countdown: NewCountdown(m.Settings.TotalTime),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Module returns the topic module.
func (s *Session) Module() *topic.Module { return s.module }

// Settings returns the topic settings.
func (s *Session) Settings() topic.Settings { return s.module.Settings }

// Round returns the current round, or nil before the first NewRound.
func (s *Session) Round() *Round { return s.round }

// Countdown returns the round countdown.
func (s *Session) Countdown() *Countdown { return s.countdown }

// NewRound discards the current round, samples a new one and restarts the
// countdown. The previous countdown is stopped before the new one starts.
// It returns the generation the new round's ticks must carry.
func (s *Session) NewRound() uint64 {
	s.countdown.Stop()

	tasks := Sample(s.module.Tasks, s.module.Settings.ProblemsToSelect, s.rng)
	cards := make([]*Card, 0, len(tasks))
	for _, t := range tasks {
		c := &Card{Task: t}
		c.Generated, c.Err = t.Generate(s.rng)
		if c.Err != nil {
			s.logger.Warn("task generation failed", "topic", s.module.Name, "type", t.Type(), "error", c.Err)
		}
		cards = append(cards, c)
	}

	s.round = &Round{
		ID:        uuid.NewString(),
		Cards:     cards,
		StartedAt: s.now(),
	}
	gen := s.countdown.Start()

	s.logger.Info("round started",
		"topic", s.module.Name,
		"round", s.round.ID,
		"cards", len(cards),
		"seconds", s.countdown.Total())
	return gen
}

// SetAnswer stores the learner's input for card i. It is ignored once the
// round is finished.
func (s *Session) SetAnswer(i int, text string) {
	if s.round == nil || s.round.Finished || i < 0 || i >= len(s.round.Cards) {
		return
	}
	s.round.Cards[i].Answer = text
}

// TickResult describes the effect of one countdown tick.
type TickResult struct {
	// Live is false for ticks of an earlier round or a finished round.
	// The caller must not schedule another tick when Live is false.
	Live bool

	// Remaining is the seconds left after the tick.
	Remaining int

	// Result is set when this tick expired the countdown and ran the check.
	Result *Result
}

// Tick advances the countdown of generation gen. The finished flag is
// checked first, so a round that was already checked never scores again.
func (s *Session) Tick(gen uint64) TickResult {
	if s.round == nil || s.round.Finished {
		s.countdown.Stop()
		return TickResult{Remaining: s.countdown.Remaining()}
	}

	expired, ok := s.countdown.Tick(gen)
	if !ok {
		return TickResult{Remaining: s.countdown.Remaining()}
	}

	tr := TickResult{Live: true, Remaining: s.countdown.Remaining()}
	if expired {
		tr.Result, _ = s.Check(ReasonTimeout)
		tr.Live = false
	}
	return tr
}

// Check grades every card of the current round through the topic
// validator and finishes the round. Only the first call scores; later
// calls return (nil, false).
func (s *Session) Check(reason Reason) (*Result, bool) {
	r := s.round
	if r == nil || r.Finished {
		return nil, false
	}
	r.Finished = true
	r.FinishedAt = s.now()
	s.countdown.Stop()

	res := &Result{Total: len(r.Cards), Reason: reason}
	for _, c := range r.Cards {
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Err != nil {
			c.Verdict = topic.Verdict{CorrectAnswerText: "?"}
			continue
		}
		c.Verdict = s.module.Validator.Check(c.Answer, c.Task, c.Generated.Variables)
		if c.Verdict.Correct {
			res.Correct++
		}
	}
	r.Result = res

	s.logger.Info("round checked",
		"topic", s.module.Name,
		"round", r.ID,
		"reason", string(reason),
		"correct", res.Correct,
		"total", res.Total)
	return res, true
}
