package notice

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/drillz/internal/topic"
)

func TestForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"no topic", topic.ErrNoTopic, KindNoTopic},
		{"not found", &topic.NotFoundError{Name: "x", Err: errors.New("missing")}, KindNotFound},
		{"malformed", &topic.MalformedError{Name: "x", Err: errors.New("no check")}, KindMalformed},
		{"wrapped malformed", fmt.Errorf("load: %w", &topic.MalformedError{Name: "x", Err: errors.New("bad")}), KindMalformed},
		{"other", errors.New("disk on fire"), KindError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ForError(tc.err).Kind())
		})
	}
}

func TestNoticeScreen_View(t *testing.T) {
	view := NoTopic([]string{"arithmetic", "capitals"}).View(80, 20)
	assert.Contains(t, view, "No topic selected")
	assert.Contains(t, view, "drillz --topic arithmetic")
	assert.Contains(t, view, "arithmetic, capitals")

	view = ForError(&topic.MalformedError{Name: "algebra", Err: errors.New("missing check")}).View(80, 20)
	assert.Contains(t, view, "Topic file is malformed")
	assert.Contains(t, view, "missing check")

	view = ForError(&topic.NotFoundError{Name: "algebra", Err: errors.New("gone")}).View(80, 20)
	assert.Contains(t, view, "Topic file not found")
	assert.True(t, strings.Contains(view, `"algebra"`))
}

func TestNoticeScreen_IgnoresInput(t *testing.T) {
	n := NoTopic(nil)
	scr, cmd := n.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Same(t, n, scr)
	assert.Nil(t, cmd)
	assert.Equal(t, "No topic", n.Title())
}
