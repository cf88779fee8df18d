package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// FormSectionConfig describes one bordered form section.
type FormSectionConfig struct {
	Content []string
	Width   int
	// TopLeft is the label drawn inside the top border.
	TopLeft     string
	TopLeftHint string
	Focused     bool
	// Invalid draws the border in the error color when the section is not focused.
	Invalid            bool
	FocusedBorderColor lipgloss.TerminalColor
}

// FormSection renders a bordered section with the label inline in the top
// border: ╭─ Label (hint) ─────╮
func FormSection(cfg FormSectionConfig) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	switch {
	case cfg.Focused && cfg.FocusedBorderColor != nil:
		borderColor = cfg.FocusedBorderColor
	case cfg.Focused:
		borderColor = BorderHighlightFocusColor
	case cfg.Invalid:
		borderColor = StatusErrorColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)
	hintStyle := lipgloss.NewStyle().Foreground(TextMutedColor)

	innerWidth := max(cfg.Width-2, 1)

	var top string
	if cfg.TopLeft == "" {
		top = borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	} else {
		label := cfg.TopLeft
		if cfg.TopLeftHint != "" {
			label += " (" + cfg.TopLeftHint + ")"
		}
		dashes := max(innerWidth-lipgloss.Width(label)-3, 0)

		top = borderStyle.Render(borderTopLeft+borderHorizontal+" ") + titleStyle.Render(cfg.TopLeft)
		if cfg.TopLeftHint != "" {
			top += " " + hintStyle.Render("("+cfg.TopLeftHint+")")
		}
		top += borderStyle.Render(" " + strings.Repeat(borderHorizontal, dashes) + borderTopRight)
	}

	lines := make([]string, 0, len(cfg.Content))
	for _, row := range cfg.Content {
		pad := ""
		if w := lipgloss.Width(row); w < innerWidth {
			pad = strings.Repeat(" ", innerWidth-w)
		}
		lines = append(lines, borderStyle.Render(borderVertical)+row+pad+borderStyle.Render(borderVertical))
	}

	bottom := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	return top + "\n" + strings.Join(lines, "\n") + "\n" + bottom
}
