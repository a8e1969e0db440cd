// Package trainer implements the main drill screen: a timed round of
// problem cards with answer inputs, the check pass and exports.
package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillz/internal/export"
	"github.com/abhisek/drillz/internal/router"
	"github.com/abhisek/drillz/internal/screen"
	"github.com/abhisek/drillz/internal/screens/history"
	"github.com/abhisek/drillz/internal/session"
	"github.com/abhisek/drillz/internal/store"
	"github.com/abhisek/drillz/internal/ui/components"
	"github.com/abhisek/drillz/internal/ui/layout"
)

const (
	formatPDF  = "PDF"
	formatXLSX = "XLSX"

	answerCharLimit = 64
	historyTimeout  = 5 * time.Second
)

// Options carries the trainer's optional collaborators.
type Options struct {
	// Rounds stores finished rounds. Nil disables history.
	Rounds store.RoundRepo

	// HistoryKeep prunes history to this many rounds after each save.
	// Zero keeps everything.
	HistoryKeep int

	// ExportDir is where PDF and XLSX files are written.
	ExportDir string

	// PDFFont is the path of a UTF-8 TrueType font for PDF export.
	PDFFont string

	Logger *slog.Logger
	Now    func() time.Time
}

// TrainerScreen implements screen.Screen for a round of problems.
type TrainerScreen struct {
	sess   *session.Session
	opts   Options
	inputs []components.TextInput
	focus  int
	gen    uint64
	notice components.Notice
}

var _ screen.Screen = (*TrainerScreen)(nil)
var _ screen.KeyHintProvider = (*TrainerScreen)(nil)
var _ screen.StatusProvider = (*TrainerScreen)(nil)

// New creates a TrainerScreen for a session. The first round starts in Init.
func New(sess *session.Session, opts Options) *TrainerScreen {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	return &TrainerScreen{sess: sess, opts: opts}
}

func (s *TrainerScreen) Init() tea.Cmd {
	return s.startRound()
}

func (s *TrainerScreen) Title() string {
	return s.sess.Settings().DisplayTitle()
}

// Status returns the countdown clock for the header.
func (s *TrainerScreen) Status() string {
	return s.sess.Countdown().Clock()
}

func (s *TrainerScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
	}
	if !s.finished() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Check"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "New round"},
		layout.KeyHint{Key: "Ctrl+P", Description: "PDF"},
		layout.KeyHint{Key: "Ctrl+E", Description: "XLSX"},
	)
	if s.opts.Rounds != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *TrainerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)

	case exportDoneMsg:
		return s.handleExportDone(msg)

	case historySavedMsg:
		if msg.Err != nil {
			s.opts.Logger.Warn("save round failed", "round", msg.RoundID, "error", msg.Err)
			s.notice = components.Notice{Text: "Could not save history: " + msg.Err.Error(), Kind: components.NoticeWarning}
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other input messages.
	return s, s.updateFocused(msg)
}

func (s *TrainerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return s, s.check()
	case "ctrl+r":
		return s, s.startRound()
	case "ctrl+p":
		return s, s.exportPDF()
	case "ctrl+e":
		return s, s.exportXLSX()
	case "ctrl+h":
		if s.opts.Rounds == nil {
			s.notice = components.Notice{Text: "History is disabled."}
			return s, nil
		}
		h := history.New(s.opts.Rounds, s.sess.Module().Name)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: h} }
	case "tab", "down", "enter":
		return s, s.moveFocus(1)
	case "shift+tab", "up":
		return s, s.moveFocus(-1)
	case "esc":
		s.notice = components.Notice{}
		return s, nil
	}
	return s, s.updateFocused(msg)
}

// startRound replaces the current round and restarts the countdown. Ticks
// of the previous round carry an older generation and are dropped.
func (s *TrainerScreen) startRound() tea.Cmd {
	s.gen = s.sess.NewRound()
	s.notice = components.Notice{}

	cards := s.sess.Round().Cards
	s.inputs = make([]components.TextInput, len(cards))
	for i := range cards {
		s.inputs[i] = components.NewTextInput("Your answer", answerCharLimit)
	}
	s.focus = 0

	cmds := []tea.Cmd{tickCmd(s.gen)}
	if len(s.inputs) > 0 {
		cmds = append(cmds, s.inputs[0].Focus())
	}
	return tea.Batch(cmds...)
}

func (s *TrainerScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	s.syncAnswers()
	tr := s.sess.Tick(msg.gen)
	if tr.Result != nil {
		return s, s.finish()
	}
	if !tr.Live {
		return s, nil
	}
	return s, tickCmd(msg.gen)
}

// check runs the manual check pass. A round is scored only once.
func (s *TrainerScreen) check() tea.Cmd {
	s.syncAnswers()
	if _, ok := s.sess.Check(session.ReasonManual); !ok {
		return nil
	}
	return s.finish()
}

// finish locks the inputs with their verdicts and stores the round.
func (s *TrainerScreen) finish() tea.Cmd {
	r := s.sess.Round()
	for i, c := range r.Cards {
		if i < len(s.inputs) {
			s.inputs[i].Lock(c.Verdict.Correct)
		}
	}
	return s.saveHistory(r)
}

func (s *TrainerScreen) saveHistory(r *session.Round) tea.Cmd {
	repo := s.opts.Rounds
	if repo == nil || r.Result == nil {
		return nil
	}
	rec := roundRecord(s.sess, r)
	keep := s.opts.HistoryKeep
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		if err := repo.Save(ctx, rec); err != nil {
			return historySavedMsg{RoundID: rec.ID, Err: err}
		}
		if keep > 0 {
			if err := repo.Prune(ctx, keep); err != nil {
				return historySavedMsg{RoundID: rec.ID, Err: fmt.Errorf("prune history: %w", err)}
			}
		}
		return historySavedMsg{RoundID: rec.ID}
	}
}

// roundRecord converts a finished round into its history form.
func roundRecord(sess *session.Session, r *session.Round) *store.RoundRecord {
	rec := &store.RoundRecord{
		ID:         r.ID,
		Topic:      sess.Module().Name,
		Title:      sess.Settings().DisplayTitle(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Reason:     string(r.Result.Reason),
		Correct:    r.Result.Correct,
		Total:      r.Result.Total,
	}
	for i, c := range r.Cards {
		rec.Answers = append(rec.Answers, store.AnswerRecord{
			Position:      i + 1,
			TaskType:      c.Type(),
			Question:      export.PlainText(c.Question()),
			LearnerAnswer: c.Answer,
			CorrectAnswer: c.Verdict.CorrectAnswerText,
			Correct:       c.Verdict.Correct,
		})
	}
	return rec
}

// exportPDF snapshots the round in Update and writes the file in a command.
func (s *TrainerScreen) exportPDF() tea.Cmd {
	s.syncAnswers()
	rep := export.FromSession(s.sess, s.opts.Now())
	exp := export.PDFExporter{FontPath: s.opts.PDFFont}
	dir := s.opts.ExportDir
	return func() tea.Msg {
		path, warning, err := exp.Save(dir, rep)
		return exportDoneMsg{Format: formatPDF, Path: path, Warning: warning, Err: err}
	}
}

func (s *TrainerScreen) exportXLSX() tea.Cmd {
	s.syncAnswers()
	rep := export.FromSession(s.sess, s.opts.Now())
	dir := s.opts.ExportDir
	return func() tea.Msg {
		path, err := export.XLSXExporter{}.Save(dir, rep)
		return exportDoneMsg{Format: formatXLSX, Path: path, Err: err}
	}
}

func (s *TrainerScreen) handleExportDone(msg exportDoneMsg) (screen.Screen, tea.Cmd) {
	switch {
	case msg.Err != nil:
		s.opts.Logger.Error("export failed", "format", msg.Format, "error", msg.Err)
		s.notice = components.Notice{
			Text: fmt.Sprintf("%s export failed: %v", msg.Format, msg.Err),
			Kind: components.NoticeError,
		}
	case msg.Warning != nil:
		s.opts.Logger.Warn("pdf font fallback", "path", msg.Path, "warning", msg.Warning)
		s.notice = components.Notice{
			Text: fmt.Sprintf("Saved %s. %v", msg.Path, msg.Warning),
			Kind: components.NoticeWarning,
		}
	default:
		s.opts.Logger.Info("exported round", "format", msg.Format, "path", msg.Path)
		s.notice = components.Notice{Text: "Saved " + msg.Path}
	}
	return s, nil
}

// syncAnswers copies the input values into the session.
func (s *TrainerScreen) syncAnswers() {
	for i := range s.inputs {
		s.sess.SetAnswer(i, s.inputs[i].Value())
	}
}

func (s *TrainerScreen) finished() bool {
	r := s.sess.Round()
	return r != nil && r.Finished
}

func (s *TrainerScreen) moveFocus(delta int) tea.Cmd {
	n := len(s.inputs)
	if n == 0 {
		return nil
	}
	s.inputs[s.focus].Blur()
	s.focus = (s.focus + delta + n) % n
	if s.inputs[s.focus].Locked() {
		return nil
	}
	return s.inputs[s.focus].Focus()
}

func (s *TrainerScreen) updateFocused(msg tea.Msg) tea.Cmd {
	if s.focus >= len(s.inputs) {
		return nil
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}
