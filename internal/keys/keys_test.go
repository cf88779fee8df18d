package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestForm_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Next uses tab and ctrl+n", binding: Form.Next, expected: []string{"tab", "ctrl+n"}},
		{name: "Prev uses shift+tab and ctrl+p", binding: Form.Prev, expected: []string{"shift+tab", "ctrl+p"}},
		{name: "Toggle uses space", binding: Form.Toggle, expected: []string{" "}},
		{name: "Submit uses ctrl+s", binding: Form.Submit, expected: []string{"ctrl+s"}},
		{name: "Logs uses ctrl+x", binding: Form.Logs, expected: []string{"ctrl+x"}},
		{name: "Quit uses ctrl+c only", binding: Form.Quit, expected: []string{"ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestForm_NoPrintableShortcuts(t *testing.T) {
	// Text fields receive printable keys, so no binding besides Toggle may
	// claim a single printable character.
	all := []key.Binding{
		Form.Next, Form.Prev, Form.Up, Form.Down, Form.Enter,
		Form.Submit, Form.Logs, Form.Help, Form.Escape, Form.Quit,
	}
	for _, b := range all {
		for _, k := range b.Keys() {
			require.Greater(t, len(k), 1, "binding %q is a printable key", k)
		}
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()
	require.Len(t, km.ShortHelp(), 4)
	full := km.FullHelp()
	require.Len(t, full, 3)
	for _, group := range full {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
}
