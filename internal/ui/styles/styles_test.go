package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestFormSection_LabelAndHint(t *testing.T) {
	out := ansi.Strip(FormSection(FormSectionConfig{
		Content:     []string{"Priya"},
		Width:       30,
		TopLeft:     "Name",
		TopLeftHint: "required",
	}))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "╭─ Name (required) "))
	require.True(t, strings.HasSuffix(lines[0], "╮"))
	require.Equal(t, "│Priya"+strings.Repeat(" ", 23)+"│", lines[1])
	require.Equal(t, "╰"+strings.Repeat("─", 28)+"╯", lines[2])
	for _, l := range lines {
		require.Equal(t, 30, ansi.StringWidth(l), "line %q", l)
	}
}

func TestFormSection_NoLabel(t *testing.T) {
	out := ansi.Strip(FormSection(FormSectionConfig{Content: []string{"x"}, Width: 10}))
	require.True(t, strings.HasPrefix(out, "╭"+strings.Repeat("─", 8)+"╮"))
}

func TestTruncateString(t *testing.T) {
	require.Equal(t, "Paper Presentation", TruncateString("Paper Presentation", 40))
	require.Equal(t, "Paper P...", TruncateString("Paper Presentation", 10))
	require.Equal(t, "Pap", TruncateString("Paper", 3))
	require.Equal(t, "", TruncateString("Paper", 0))
}

func TestRupees(t *testing.T) {
	require.Equal(t, "₹650", Rupees(650))
	require.Equal(t, "₹585", Rupees(585))
	require.Equal(t, "₹292.5", Rupees(292.5))
}
