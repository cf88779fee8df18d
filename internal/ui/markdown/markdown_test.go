package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestNew_Styles(t *testing.T) {
	for _, style := range []string{"", "dark", "light", "notty"} {
		r, err := New(60, style)
		require.NoError(t, err, "style %q", style)
		require.Equal(t, 60, r.Width())
	}
}

func TestRender_ListAndEmphasis(t *testing.T) {
	r, err := New(60, "dark")
	require.NoError(t, err)

	out, err := r.Render("## Receipt\n\n- **Name:** Priya\n- **Amount:** ₹585\n")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "Receipt")
	require.Contains(t, plain, "Name:")
	require.Contains(t, plain, "Priya")
	require.Contains(t, plain, "₹585")
}
