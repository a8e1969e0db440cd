package history

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drillz/internal/router"
	"github.com/abhisek/drillz/internal/store"
)

type fakeRepo struct {
	rounds []store.RoundRecord
	opts   store.QueryOpts
	gets   int
}

func (f *fakeRepo) Save(_ context.Context, rec *store.RoundRecord) error {
	f.rounds = append(f.rounds, *rec)
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*store.RoundRecord, error) {
	f.gets++
	for _, r := range f.rounds {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Recent(_ context.Context, opts store.QueryOpts) ([]store.RoundRecord, error) {
	f.opts = opts
	return f.rounds, nil
}

func (f *fakeRepo) Prune(context.Context, int) error { return nil }

func testRepo() *fakeRepo {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &fakeRepo{rounds: []store.RoundRecord{
		{
			ID: "r1", Topic: "arithmetic", Title: "Arithmetic",
			StartedAt: start, FinishedAt: start.Add(95 * time.Second),
			Reason: "manual", Correct: 1, Total: 2,
			Answers: []store.AnswerRecord{
				{Position: 1, TaskType: "addition", Question: "2 + 3", LearnerAnswer: "5", CorrectAnswer: "5", Correct: true},
				{Position: 2, TaskType: "division", Question: "8 / 2", CorrectAnswer: "4"},
			},
		},
		{
			ID: "r2", Topic: "arithmetic", Title: "Arithmetic",
			StartedAt: start, FinishedAt: start.Add(300 * time.Second),
			Reason: "timeout", Correct: 0, Total: 2,
		},
	}}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	msg := s.Init()()
	s.Update(msg)
}

func TestHistoryScreen_Loads(t *testing.T) {
	repo := testRepo()
	s := New(repo, "arithmetic")
	assert.Contains(t, s.View(80, 20), "Loading history")

	load(t, s)
	assert.Equal(t, "arithmetic", repo.opts.Topic)
	assert.Equal(t, listLimit, repo.opts.Limit)

	view := s.View(100, 20)
	assert.Contains(t, view, "1 of 2")
	assert.Contains(t, view, "1:35")
	assert.Contains(t, view, "(timeout)")
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeRepo{}, "")
	load(t, s)
	assert.Contains(t, s.View(80, 20), "No rounds yet")
}

func TestHistoryScreen_ExpandLoadsAnswersOnce(t *testing.T) {
	repo := testRepo()
	s := New(repo, "arithmetic")
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Equal(t, 1, repo.gets)

	view := s.View(100, 20)
	assert.Contains(t, view, "2 + 3 = 5")
	assert.Contains(t, view, "8 / 2 = (blank) (4)")

	// Collapse and expand again uses the cached answers.
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, repo.gets)
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := New(testRepo(), "")
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

type savedMsg struct{ ok bool }

func (m savedMsg) Changed() bool { return m.ok }

func TestHistoryScreen_ReloadsAfterSave(t *testing.T) {
	repo := &fakeRepo{}
	s := New(repo, "")
	load(t, s)
	assert.Contains(t, s.View(80, 20), "No rounds yet")

	_, cmd := s.Update(savedMsg{ok: false})
	assert.Nil(t, cmd, "failed saves do not reload")

	repo.rounds = testRepo().rounds
	_, cmd = s.Update(savedMsg{ok: true})
	require.NotNil(t, cmd)
	s.Update(cmd())

	view := s.View(100, 20)
	assert.Contains(t, view, "1 of 2")
	assert.Contains(t, view, "(timeout)")
}

func TestHistoryScreen_ReloadKeepsExpandedRound(t *testing.T) {
	repo := testRepo()
	s := New(repo, "")
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	// A newer round lands at the top of the list.
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	repo.rounds = append([]store.RoundRecord{{
		ID: "r0", Title: "Arithmetic", StartedAt: start, FinishedAt: start.Add(time.Minute),
		Reason: "manual", Correct: 2, Total: 2,
	}}, repo.rounds...)
	_, cmd = s.Update(savedMsg{ok: true})
	s.Update(cmd())

	view := s.View(100, 30)
	assert.Contains(t, view, "2 + 3 = 5", "r1 stays expanded")
	assert.Contains(t, view, "2 of 2")
}
