package app

import (
	"testing"
	"testing/fstest"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drillz/internal/screens/notice"
	"github.com/abhisek/drillz/internal/screens/trainer"
	"github.com/abhisek/drillz/internal/topic"
)

const additionTopic = `
settings:
  title: Addition
  totalTime: 5
  problemsToSelect: 1
check: {}
tasks:
  - type: addition
    text: "{{.a}} + {{.b}}"
    vars:
      - {name: a, min: 1, max: 9}
      - {name: b, min: 1, max: 9}
    answer: a + b
`

func testLoader() *topic.Loader {
	return topic.NewLoader(topic.WithFS(fstest.MapFS{
		"addition.yaml": {Data: []byte(additionTopic)},
		"broken.yaml":   {Data: []byte("settings: {}\ntasks: []\n")},
	}))
}

// load runs the app's load command and feeds the result back.
func load(t *testing.T, m AppModel) AppModel {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(AppModel)
}

func TestApp_NoTopic(t *testing.T) {
	m := newAppModel(Options{Loader: testLoader()})
	assert.Nil(t, m.Init())

	n, ok := m.router.Active().(*notice.NoticeScreen)
	require.True(t, ok)
	assert.Equal(t, notice.KindNoTopic, n.Kind())
	assert.Contains(t, n.View(80, 20), "addition, broken")
}

func TestApp_LoadsTrainer(t *testing.T) {
	m := newAppModel(Options{Topic: "addition", Loader: testLoader(), Seed: 7})
	assert.IsType(t, &notice.NoticeScreen{}, m.router.Active())

	m = load(t, m)
	tr, ok := m.router.Active().(*trainer.TrainerScreen)
	require.True(t, ok)
	assert.Equal(t, "Addition", tr.Title())
	assert.Equal(t, "00:05", tr.Status())
	assert.Equal(t, 1, m.router.Depth())
}

func TestApp_LoadErrors(t *testing.T) {
	tests := []struct {
		topic string
		want  notice.Kind
	}{
		{"missing", notice.KindNotFound},
		{"broken", notice.KindMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.topic, func(t *testing.T) {
			m := load(t, newAppModel(Options{Topic: tc.topic, Loader: testLoader()}))
			n, ok := m.router.Active().(*notice.NoticeScreen)
			require.True(t, ok, "no trainer is rendered after a load failure")
			assert.Equal(t, tc.want, n.Kind())
		})
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Loader: testLoader()})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_View(t *testing.T) {
	m := load(t, newAppModel(Options{Topic: "addition", Loader: testLoader()}))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)

	v := m.View()
	assert.True(t, v.AltScreen)

	tr := m.router.Active().(*trainer.TrainerScreen)
	hints := tr.KeyHints()
	keys := make([]string, len(hints))
	for i, h := range hints {
		keys[i] = h.Key
	}
	assert.Contains(t, keys, "Ctrl+S")
	assert.NotContains(t, keys, "Ctrl+H", "history hint needs a store")
}
