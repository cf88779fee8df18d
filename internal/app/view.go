package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/electryonz/internal/keys"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

const (
	formWidth = 64
	gutter    = 3
	// minFormHeight keeps the form usable when the QR block sits below it.
	minFormHeight = 10
)

// sideBySide reports whether the QR block fits to the right of the form.
func (m Model) sideBySide(block string) bool {
	return m.width >= formWidth+gutter+lipgloss.Width(block)
}

// resizeForm gives the form whatever height the help line and QR block leave.
func (m Model) resizeForm() Model {
	if m.height == 0 {
		return m
	}
	h := m.height - lipgloss.Height(m.helpView())
	if block := m.qrBlock(); block != "" && !m.sideBySide(block) {
		h = max(h-lipgloss.Height(block)-1, minFormHeight)
	}
	m.form = m.form.SetSize(formWidth, h)
	return m
}

// qrBlock is the payment section shown after a successful registration.
func (m Model) qrBlock() string {
	ref := m.ctrl.QRCodeURL()
	if ref == "" {
		return ""
	}
	shown := ref
	if strings.HasPrefix(ref, "data:") {
		shown = styles.TruncateString(ref, 40)
	}

	parts := []string{
		styles.TotalStyle.Render("Scan this QR Code to Complete Payment:"),
		shown,
	}
	if m.qrArt != "" {
		parts = append(parts, "", m.qrArt)
	}
	if m.receipt != "" {
		parts = append(parts, m.receipt)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) helpView() string {
	return " " + m.help.View(keys.Form)
}

// View implements tea.Model.
func (m Model) View() string {
	body := m.form.View()
	if block := m.qrBlock(); block != "" {
		if m.sideBySide(block) {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, strings.Repeat(" ", gutter), block)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, body, "", block)
		}
	}

	view := body + "\n" + m.helpView()

	if m.width > 0 && m.height > 0 {
		view = lipgloss.NewStyle().MaxHeight(m.height).Render(view)
		view = m.toaster.Overlay(view, m.width, m.height)
		view = m.alert.Overlay(view)
		view = m.logOverlay.Overlay(view)
	}
	return zone.Scan(view)
}
