package trainer

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillz/internal/export"
)

// tickMsg is one second of the countdown of round generation gen.
type tickMsg struct {
	gen uint64
}

func (tickMsg) Background() {}

// exportDoneMsg reports a finished PDF or XLSX export.
type exportDoneMsg struct {
	Format  string
	Path    string
	Warning *export.FontWarning
	Err     error
}

func (exportDoneMsg) Background() {}

// historySavedMsg confirms the round was written to history.
type historySavedMsg struct {
	RoundID string
	Err     error
}

func (historySavedMsg) Background() {}

// Changed makes a covering history screen reload after a successful save.
func (m historySavedMsg) Changed() bool { return m.Err == nil }

// tickCmd returns a 1-second tick tagged with the round generation.
func tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
