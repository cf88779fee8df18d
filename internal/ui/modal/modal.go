// Package modal provides a blocking alert dialog with a single OK button.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/electryonz/internal/ui/overlay"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

const minWidth = 40

// Config controls the alert's text.
type Config struct {
	Title   string
	Message string
	// Details are listed under the message, one per line.
	Details  []string
	OKLabel  string // default "OK"
	MinWidth int    // default 40
}

// DismissMsg is sent when the user acknowledges the alert.
type DismissMsg struct{}

// Model is the alert dialog state. The zero value is a hidden alert.
type Model struct {
	config  Config
	visible bool
	width   int
	height  int
}

// New creates a visible alert.
func New(cfg Config) Model {
	return Model{config: cfg, visible: true}
}

// Visible reports whether the alert is blocking input.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the alert's main text.
func (m Model) Message() string {
	return m.config.Message
}

// Update closes the alert on enter, space or esc. While visible it swallows
// every other key.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", " ", "esc":
			m.visible = false
			return m, func() tea.Msg { return DismissMsg{} }
		}
	}
	return m, nil
}

// View renders the dialog box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := max(m.config.MinWidth, minWidth, lipgloss.Width(m.config.Title))

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	divider := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor).
		Render(strings.Repeat("─", width+2))

	var body strings.Builder
	body.WriteString(lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor).
		Render(wordwrap.String(m.config.Message, width)))
	if len(m.config.Details) > 0 {
		body.WriteString("\n")
		for _, d := range m.config.Details {
			body.WriteString("\n")
			body.WriteString(styles.HintStyle.Render("• " + d))
		}
	}
	body.WriteString("\n\n")

	label := m.config.OKLabel
	if label == "" {
		label = "OK"
	}
	body.WriteString(styles.PrimaryButtonFocusedStyle.Render(label))

	var out strings.Builder
	out.WriteString(titleStyle.Render(m.config.Title))
	out.WriteString("\n")
	out.WriteString(divider)
	out.WriteString("\n")
	out.WriteString(lipgloss.NewStyle().Padding(1, 1).Render(body.String()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width + 2).
		Render(out.String())
}

// Overlay renders the alert centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize records the viewport size used for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
