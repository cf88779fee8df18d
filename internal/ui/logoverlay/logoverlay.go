// Package logoverlay draws the tail of the in-memory log buffer in a box over
// the form. The app only opens it when started with --debug.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/ui/overlay"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

// ClosedMsg is emitted after esc hides the box.
type ClosedMsg struct{}

// filters are the level keys, lowest first.
var filters = []struct {
	key, label string
	level      log.Level
}{
	{"d", "[d] Debug", log.LevelDebug},
	{"i", "[i] Info", log.LevelInfo},
	{"w", "[w] Warn", log.LevelWarn},
	{"e", "[e] Error", log.LevelError},
}

var entryColor = map[log.Level]lipgloss.TerminalColor{
	log.LevelDebug: styles.TextMutedColor,
	log.LevelInfo:  styles.ToastBorderInfoColor,
	log.LevelWarn:  styles.StatusWarningColor,
	log.LevelError: styles.StatusErrorColor,
}

// Model holds the box state. The zero value is unusable; call New.
type Model struct {
	open  bool
	floor log.Level
	w, h  int
	vp    viewport.Model
}

// New returns a closed box that shows every level.
func New() Model {
	return Model{floor: log.LevelDebug}
}

// Update consumes keys while open. Level keys set the floor, c empties the
// buffer, esc closes, and anything else scrolls the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	s := k.String()
	for _, f := range filters {
		if f.key == s {
			m.floor = f.level
			m.Refresh()
			return m, nil
		}
	}
	switch s {
	case "esc":
		m.open = false
		return m, func() tea.Msg { return ClosedMsg{} }
	case "c":
		log.ClearBuffer()
		m.Refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(k)
	return m, cmd
}

// Refresh re-reads the buffer and pins the viewport to the newest entry.
func (m *Model) Refresh() {
	if !m.open || m.w == 0 || m.h == 0 {
		return
	}
	m.vp = viewport.New(m.textWidth(), max(4, min(20, m.h-6)))
	m.vp.SetContent(m.body())
	m.vp.GotoBottom()
}

func (m Model) body() string {
	width := m.textWidth()
	var out []string
	for _, e := range log.GetRecentLogs() {
		if e.Level < m.floor {
			continue
		}
		line := ansi.Truncate(e.String(), width, "...")
		out = append(out, lipgloss.NewStyle().Foreground(entryColor[e.Level]).Render(line))
	}
	if out == nil {
		return styles.HintStyle.Italic(true).Render("No logs to display")
	}
	return strings.Join(out, "\n")
}

func (m Model) legend() string {
	parts := []string{styles.HintStyle.Render("[c] Clear")}
	for _, f := range filters {
		if f.level == m.floor {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).Render(f.label))
			continue
		}
		parts = append(parts, styles.HintStyle.Render(f.label))
	}
	parts = append(parts, styles.HintStyle.Render("[esc] Close"))
	return " " + strings.Join(parts, "  ")
}

// View renders the box, or nothing while closed.
func (m Model) View() string {
	if !m.open {
		return ""
	}
	width := m.textWidth() + 2
	sep := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Logs")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, sep, m.vp.View(), sep, m.legend()))
}

// Overlay centers the box over bg when open.
func (m Model) Overlay(bg string) string {
	if !m.open {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.w, Height: m.h, Position: overlay.Center}, m.View(), bg)
}

// Visible reports whether the box is open.
func (m Model) Visible() bool { return m.open }

// Floor is the lowest level currently shown.
func (m Model) Floor() log.Level { return m.floor }

// Toggle flips the box open or closed.
func (m *Model) Toggle() {
	m.open = !m.open
	m.Refresh()
}

// SetSize records the terminal size and re-lays out the viewport.
func (m *Model) SetSize(w, h int) {
	m.w, m.h = w, h
	m.Refresh()
}

// textWidth is the content width inside the border, kept between 38 and 138.
func (m Model) textWidth() int {
	return max(38, min(138, m.w-6))
}
