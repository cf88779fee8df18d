// Package toaster shows short-lived notifications at the bottom of the screen.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/electryonz/internal/ui/overlay"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

// Style determines the icon and border color of a toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// maxWidth is the widest a toast message wraps to.
const maxWidth = 48

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	// seq identifies the toast a DismissMsg belongs to, so an old timer cannot
	// hide a newer toast.
	seq int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message with the given style, replacing any current toast.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the current toast.
func (m Model) Message() string {
	return m.message
}

// Update hides the toast when its own DismissMsg arrives.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		return m.Hide()
	}
	return m
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	box := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var icon string
	switch m.style {
	case StyleError:
		box = box.BorderForeground(styles.ToastBorderErrorColor)
		icon = "✗ "
	case StyleInfo:
		box = box.BorderForeground(styles.ToastBorderInfoColor)
		icon = "i "
	case StyleWarn:
		box = box.BorderForeground(styles.ToastBorderWarnColor)
		icon = "! "
	default:
		box = box.BorderForeground(styles.ToastBorderSuccessColor)
		icon = "✓ "
	}

	return box.Render(wordwrap.String(icon+m.message, maxWidth))
}

// Overlay renders the toast one row above the bottom edge of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg asks the toaster to hide the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

// ScheduleDismiss returns a command that hides the current toast after d.
func (m Model) ScheduleDismiss(d time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}
