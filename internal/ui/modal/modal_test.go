package modal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsHidden(t *testing.T) {
	var m Model
	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, "bg", m.Overlay("bg"))
}

func TestView_ShowsMessageDetailsAndButton(t *testing.T) {
	m := New(Config{
		Title:   "Incomplete registration",
		Message: "Please fill all the fields.",
		Details: []string{"mobile", "email"},
	})

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Incomplete registration")
	require.Contains(t, view, "Please fill all the fields.")
	require.Contains(t, view, "• mobile")
	require.Contains(t, view, "• email")
	require.Contains(t, view, "OK")
}

func TestUpdate_DismissKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEnter},
		{Type: tea.KeyEsc},
		{Type: tea.KeySpace, Runes: []rune{' '}},
	} {
		t.Run(k.String(), func(t *testing.T) {
			m, cmd := New(Config{Message: "x"}).Update(k)
			require.False(t, m.Visible())
			require.NotNil(t, cmd)
			require.IsType(t, DismissMsg{}, cmd())
		})
	}
}

func TestUpdate_SwallowsOtherKeys(t *testing.T) {
	m, cmd := New(Config{Message: "x"}).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	require.True(t, m.Visible())
	require.Nil(t, cmd)
}

func TestOverlay_Centers(t *testing.T) {
	m := New(Config{Title: "T", Message: "hello"})
	m.SetSize(80, 24)
	out := ansi.Strip(m.Overlay(""))
	require.Contains(t, out, "hello")
}
