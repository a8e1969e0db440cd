package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestTextInput_LockStopsEdits(t *testing.T) {
	in := NewTextInput("answer", 10)
	in.Focus()
	in, _ = in.Update(tea.KeyPressMsg{Code: '4', Text: "4"})
	in, _ = in.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	assert.Equal(t, "42", in.Value())

	in.Lock(false)
	assert.True(t, in.Locked())
	assert.False(t, in.Focused())

	in, _ = in.Update(tea.KeyPressMsg{Code: '7', Text: "7"})
	assert.Equal(t, "42", in.Value())
	assert.Contains(t, in.View(), "✗")
}

func TestTimeBar_Fraction(t *testing.T) {
	tests := []struct {
		remaining, total int
		want             float64
	}{
		{60, 120, 0.5},
		{0, 120, 0},
		{200, 120, 1},
		{10, 0, 0},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, NewTimeBar("", tc.remaining, tc.total, 40).Fraction(), 1e-9)
	}
}

func TestTimeBar_View(t *testing.T) {
	view := NewTimeBar("01:30", 90, 120, 40).View()
	assert.Contains(t, view, "01:30")
	assert.Equal(t, 40, lipgloss.Width(view))
}

func TestButton_View(t *testing.T) {
	assert.Contains(t, NewButton("Check", "Ctrl+S", true).View(), "Check (Ctrl+S)")
	assert.NotContains(t, NewButton("Check", "", false).View(), "(")
}

func TestNotice_View(t *testing.T) {
	assert.Equal(t, "", Notice{}.View(40))
	view := Notice{Text: "Saved Trainer.pdf", Kind: NoticeWarning}.View(40)
	assert.True(t, strings.Contains(view, "Saved Trainer.pdf"))
}
