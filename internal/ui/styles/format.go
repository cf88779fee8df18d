package styles

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// TruncateString shortens s to at most maxWidth cells, ending in "...".
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Rupees formats an amount as ₹650 or ₹585.5, dropping a zero fraction.
func Rupees(amount float64) string {
	return "₹" + strconv.FormatFloat(amount, 'f', -1, 64)
}
