package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/router"
	"github.com/abhisek/drillz/internal/screen"
	"github.com/abhisek/drillz/internal/screens/notice"
	"github.com/abhisek/drillz/internal/screens/trainer"
	"github.com/abhisek/drillz/internal/session"
	"github.com/abhisek/drillz/internal/topic"
	"github.com/abhisek/drillz/internal/ui/layout"
)

// Options configures the application.
type Options struct {
	// Topic is the topic to load. Empty shows the usage notice.
	Topic string

	Loader *topic.Loader

	// Trainer is passed through to the trainer screen.
	Trainer trainer.Options

	// Seed fixes the session random source when non-zero.
	Seed uint64

	Logger *slog.Logger
}

// topicLoadedMsg carries the result of the asynchronous topic load.
type topicLoadedMsg struct {
	Module *topic.Module
	Err    error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel showing the loading notice, or the usage
// notice when no topic was given.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Loader == nil {
		opts.Loader = topic.NewLoader()
	}
	if opts.Trainer.Logger == nil {
		opts.Trainer.Logger = opts.Logger
	}

	var first screen.Screen
	if opts.Topic == "" {
		names, err := opts.Loader.List()
		if err != nil {
			opts.Logger.Warn("list topics", "error", err)
		}
		first = notice.NoTopic(names)
	} else {
		first = notice.Loading(opts.Topic)
	}
	return AppModel{
		opts:   opts,
		router: router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.Topic == "" {
		return nil
	}
	return m.loadTopic()
}

func (m AppModel) loadTopic() tea.Cmd {
	loader, name := m.opts.Loader, m.opts.Topic
	return func() tea.Msg {
		mod, err := loader.Load(context.Background(), name)
		return topicLoadedMsg{Module: mod, Err: err}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case topicLoadedMsg:
		return m, m.router.Replace(m.screenFor(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// screenFor returns the trainer for a loaded topic, or the terminal notice
// for a load failure. Nothing else is rendered after a failure.
func (m AppModel) screenFor(msg topicLoadedMsg) screen.Screen {
	if msg.Err != nil {
		m.opts.Logger.Error("load topic", "topic", m.opts.Topic, "error", msg.Err)
		return notice.ForError(msg.Err)
	}

	sessOpts := []session.Option{session.WithLogger(m.opts.Logger)}
	if m.opts.Seed != 0 {
		sessOpts = append(sessOpts, session.WithRand(rand.New(rand.NewPCG(m.opts.Seed, m.opts.Seed))))
	}
	return trainer.New(session.New(msg.Module, sessOpts...), m.opts.Trainer)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
