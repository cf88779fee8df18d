package form

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/electryonz/internal/ui/styles"
)

const zoneSubmit = "form-submit"

func fieldZoneID(key string) string { return "form-field-" + key }

func itemZoneID(key string, i int) string { return fmt.Sprintf("form-item-%s-%d", key, i) }

// span is the line range [start, end) a focus target occupies in the body.
type span struct{ start, end int }

// View renders the header and the (possibly scrolled) body. Callers must pass
// the final screen through zone.Scan.
func (m Model) View() string {
	header := m.renderHeader()
	content, _ := m.renderBody()
	if m.height <= 0 {
		return header + "\n" + content
	}
	vp := m.body
	vp.SetContent(content)
	return header + "\n" + vp.View()
}

func (m Model) headerHeight() int {
	return lipgloss.Height(m.renderHeader())
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.config.Title))
	if m.config.Subtitle != "" {
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render(m.config.Subtitle))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(styles.BorderDefaultColor).
		Render(strings.Repeat("─", m.config.Width)))
	return b.String()
}

// renderBody draws every visible field, the footer and the button, and
// records where each focus target landed.
func (m Model) renderBody() (string, map[int]span) {
	values := m.Values()
	spans := make(map[int]span)
	var lines []string

	for i := range m.fields {
		if !m.visible(i, values) {
			continue
		}
		block := zone.Mark(fieldZoneID(m.fields[i].config.Key), m.renderField(i))
		start := len(lines)
		lines = append(lines, strings.Split(block, "\n")...)
		spans[i] = span{start, len(lines)}
		lines = append(lines, "")
	}

	if m.footer != "" {
		lines = append(lines, strings.Split(m.footer, "\n")...)
		lines = append(lines, "")
	}

	start := len(lines)
	lines = append(lines, zone.Mark(zoneSubmit, m.renderButton()))
	spans[focusButton] = span{start, len(lines)}

	return strings.Join(lines, "\n"), spans
}

func (m Model) renderField(i int) string {
	fs := &m.fields[i]
	cfg := fs.config
	focused := m.focus == i

	var rows []string
	switch cfg.Type {
	case FieldText:
		rows = []string{fs.input.View()}
	default:
		inner := m.config.Width - 2
		for j, opt := range fs.options {
			rows = append(rows, zone.Mark(itemZoneID(cfg.Key, j), m.renderOption(fs, j, opt, focused, inner)))
		}
		if len(rows) == 0 {
			rows = []string{styles.HintStyle.Render(" (choose above first)")}
		}
	}

	return styles.FormSection(styles.FormSectionConfig{
		Content:     rows,
		Width:       m.config.Width,
		TopLeft:     cfg.Label,
		TopLeftHint: cfg.Hint,
		Focused:     focused,
	})
}

// renderOption draws ">[x] Label      ₹200" fitted to width.
func (m Model) renderOption(fs *fieldState, j int, opt Option, focused bool, width int) string {
	prefix := " "
	if focused && j == fs.cursor {
		prefix = styles.SelectionIndicatorStyle.Render(">")
	}
	mark := "( )"
	if fs.config.Type == FieldChecklist {
		mark = "[ ]"
		if opt.Selected {
			mark = "[x]"
		}
	} else if opt.Selected {
		mark = "(●)"
	}

	left := prefix + mark + " "
	hint := ""
	if opt.Hint != "" {
		hint = " " + opt.Hint + " "
	}
	room := width - lipgloss.Width(left) - runewidth.StringWidth(hint)
	label := styles.TruncateString(opt.Label, room)
	gap := max(room-runewidth.StringWidth(label), 0)
	return left + label + strings.Repeat(" ", gap) + styles.HintStyle.Render(hint)
}

func (m Model) renderButton() string {
	label := m.config.SubmitLabel
	style := styles.PrimaryButtonStyle
	switch {
	case m.loading:
		if m.config.LoadingLabel != "" {
			label = m.config.LoadingLabel
		}
		style = styles.DisabledButtonStyle
	case m.focus == focusButton:
		style = styles.PrimaryButtonFocusedStyle
	}
	return " " + style.Render(label)
}

// ensureFocusVisible scrolls the body so the focused target is on screen.
func (m *Model) ensureFocusVisible() {
	if m.height <= 0 {
		return
	}
	content, spans := m.renderBody()
	m.body.SetContent(content)
	sp, ok := spans[m.focus]
	if !ok {
		return
	}
	switch {
	case sp.start < m.body.YOffset:
		m.body.SetYOffset(sp.start)
	case sp.end > m.body.YOffset+m.body.Height:
		m.body.SetYOffset(sp.end - m.body.Height)
	}
}

// handleClick focuses the clicked field, activates a clicked option, or
// submits when the button is clicked.
func (m Model) handleClick(msg tea.MouseMsg) (Model, tea.Cmd) {
	if z := zone.Get(zoneSubmit); z != nil && z.InBounds(msg) {
		m.setFocus(focusButton, 1)
		return m, m.submit()
	}

	values := m.Values()
	for i := range m.fields {
		if !m.visible(i, values) {
			continue
		}
		k := m.fields[i].config.Key
		for j := range m.fields[i].options {
			if z := zone.Get(itemZoneID(k, j)); z != nil && z.InBounds(msg) {
				if m.focus != i {
					m.setFocus(i, 1)
				}
				return m, m.activate(i, j)
			}
		}
		if z := zone.Get(fieldZoneID(k)); z != nil && z.InBounds(msg) {
			if m.focus != i {
				m.setFocus(i, 1)
			}
			return m, nil
		}
	}
	return m, nil
}
