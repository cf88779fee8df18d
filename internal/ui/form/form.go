package form

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/electryonz/internal/keys"
)

const (
	defaultWidth = 64
	// focusButton is the focus index of the submit button.
	focusButton = -1
)

// fieldState holds the runtime state of one field.
type fieldState struct {
	config  FieldConfig
	input   textinput.Model
	options []Option
	cursor  int
}

func (fs *fieldState) value() string {
	switch fs.config.Type {
	case FieldText:
		return fs.input.Value()
	case FieldSelect:
		for _, o := range fs.options {
			if o.Selected {
				return o.Value
			}
		}
		return ""
	default:
		var sel []string
		for _, o := range fs.options {
			if o.Selected {
				sel = append(sel, o.Value)
			}
		}
		return strings.Join(sel, ",")
	}
}

// Model is the form state.
type Model struct {
	config  Config
	fields  []fieldState
	focus   int
	loading bool
	footer  string
	body    viewport.Model
	width   int
	height  int
}

// New builds a form and focuses its first visible field.
func New(cfg Config) Model {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	if cfg.SubmitLabel == "" {
		cfg.SubmitLabel = "Submit"
	}
	m := Model{
		config: cfg,
		fields: make([]fieldState, len(cfg.Fields)),
		focus:  focusButton,
		body:   viewport.New(cfg.Width, 0),
	}
	for i, fc := range cfg.Fields {
		fs := fieldState{config: fc, options: slices.Clone(fc.Options)}
		if fc.Type == FieldText {
			ti := textinput.New()
			ti.Prompt = " "
			ti.Placeholder = fc.Placeholder
			ti.CharLimit = fc.CharLimit
			ti.Width = cfg.Width - 6
			ti.SetValue(fc.Value)
			fs.input = ti
		}
		m.fields[i] = fs
	}
	if first := m.nextVisible(-1, 1); first >= 0 {
		m.setFocus(first, 1)
	}
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key, mouse and resize messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			var cmd tea.Cmd
			m, cmd = m.handleClick(msg)
			m.ensureFocusVisible()
			return m, cmd
		}
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.body, cmd = m.body.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		m.ensureFocusVisible()
		return m, cmd
	}

	if fs := m.focusedField(); fs != nil && fs.config.Type == FieldText {
		var cmd tea.Cmd
		fs.input, cmd = fs.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	fs := m.focusedField()
	onList := fs != nil && fs.config.Type != FieldText

	switch {
	case key.Matches(msg, keys.Form.Submit):
		return m, m.submit()

	case key.Matches(msg, keys.Form.Next):
		return m.move(1), textinput.Blink

	case key.Matches(msg, keys.Form.Prev):
		return m.move(-1), textinput.Blink

	case key.Matches(msg, keys.Form.Up):
		if onList && fs.cursor > 0 {
			fs.cursor--
			return m, nil
		}
		return m.move(-1), textinput.Blink

	case key.Matches(msg, keys.Form.Down):
		if onList && fs.cursor < len(fs.options)-1 {
			fs.cursor++
			return m, nil
		}
		return m.move(1), textinput.Blink

	case key.Matches(msg, keys.Form.Toggle) && onList:
		return m, m.activate(m.focus, fs.cursor)

	case key.Matches(msg, keys.Form.Enter):
		switch {
		case m.focus == focusButton:
			return m, m.submit()
		case onList:
			return m, m.activate(m.focus, fs.cursor)
		default:
			return m.move(1), textinput.Blink
		}
	}

	if fs == nil || fs.config.Type != FieldText {
		return m, nil
	}
	before := fs.input.Value()
	var cmd tea.Cmd
	fs.input, cmd = fs.input.Update(msg)
	if after := fs.input.Value(); after != before {
		return m, tea.Batch(cmd, m.emit(ChangeMsg{Key: fs.config.Key, Value: after}))
	}
	return m, cmd
}

// activate selects option idx of field i (select) or flips it (checklist).
func (m *Model) activate(i, idx int) tea.Cmd {
	fs := &m.fields[i]
	if idx < 0 || idx >= len(fs.options) {
		return nil
	}
	fs.cursor = idx
	switch fs.config.Type {
	case FieldSelect:
		if fs.options[idx].Selected {
			return nil
		}
		for j := range fs.options {
			fs.options[j].Selected = j == idx
		}
		return m.emit(ChangeMsg{Key: fs.config.Key, Value: fs.options[idx].Value, Selected: true})
	case FieldChecklist:
		fs.options[idx].Selected = !fs.options[idx].Selected
		return m.emit(ChangeMsg{Key: fs.config.Key, Value: fs.options[idx].Value, Selected: fs.options[idx].Selected})
	}
	return nil
}

func (m Model) emit(c ChangeMsg) tea.Cmd {
	if m.config.OnChange != nil {
		return func() tea.Msg { return m.config.OnChange(c) }
	}
	return func() tea.Msg { return c }
}

// submit emits the submit message unless a submission is already running.
func (m Model) submit() tea.Cmd {
	if m.loading {
		return nil
	}
	if m.config.OnSubmit != nil {
		return m.config.OnSubmit
	}
	return func() tea.Msg { return SubmitMsg{} }
}

// move shifts focus by dir over visible fields and the submit button,
// wrapping at both ends.
func (m Model) move(dir int) Model {
	next := m.nextVisible(m.focus, dir)
	if next == m.focus {
		return m
	}
	m.setFocus(next, dir)
	return m
}

// nextVisible returns the visible field after (dir 1) or before (dir -1)
// index from, treating the submit button as sitting past the last field.
func (m Model) nextVisible(from, dir int) int {
	values := m.Values()
	n := len(m.fields)
	// positions 0..n-1 are fields, n is the button
	pos := from
	if from == focusButton {
		pos = n
	}
	for range n + 1 {
		pos = (pos + dir + n + 1) % (n + 1)
		if pos == n {
			return focusButton
		}
		if m.visible(pos, values) {
			return pos
		}
	}
	return focusButton
}

func (m *Model) setFocus(i, dir int) {
	if fs := m.focusedField(); fs != nil && fs.config.Type == FieldText {
		fs.input.Blur()
	}
	m.focus = i
	fs := m.focusedField()
	if fs == nil {
		return
	}
	switch fs.config.Type {
	case FieldText:
		fs.input.Focus()
	default:
		if dir < 0 {
			fs.cursor = max(len(fs.options)-1, 0)
		} else {
			fs.cursor = 0
		}
	}
}

func (m *Model) focusedField() *fieldState {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return &m.fields[m.focus]
}

func (m Model) visible(i int, values map[string]string) bool {
	fn := m.fields[i].config.VisibleWhen
	return fn == nil || fn(values)
}

func (m Model) index(name string) int {
	return slices.IndexFunc(m.fields, func(fs fieldState) bool { return fs.config.Key == name })
}

// Values returns every field's current value keyed by field key. Checklist
// values are comma-joined option values in option order.
func (m Model) Values() map[string]string {
	out := make(map[string]string, len(m.fields))
	for i := range m.fields {
		out[m.fields[i].config.Key] = m.fields[i].value()
	}
	return out
}

// Value returns one field's current value.
func (m Model) Value(name string) string {
	if i := m.index(name); i >= 0 {
		return m.fields[i].value()
	}
	return ""
}

// Visible reports whether the field is currently shown.
func (m Model) Visible(name string) bool {
	i := m.index(name)
	return i >= 0 && m.visible(i, m.Values())
}

// Focused returns the key of the focused field, or "" on the submit button.
func (m Model) Focused() string {
	if fs := m.focusedField(); fs != nil {
		return fs.config.Key
	}
	return ""
}

// SetValue sets a text field, or selects the matching option of a select
// field ("" clears the selection). No ChangeMsg is emitted.
func (m Model) SetValue(name, value string) Model {
	i := m.index(name)
	if i < 0 {
		return m
	}
	fs := &m.fields[i]
	switch fs.config.Type {
	case FieldText:
		fs.input.SetValue(value)
	case FieldSelect:
		for j := range fs.options {
			fs.options[j].Selected = value != "" && fs.options[j].Value == value
		}
	}
	return m
}

// SetSelected sets one checklist option. No ChangeMsg is emitted.
func (m Model) SetSelected(name, value string, selected bool) Model {
	i := m.index(name)
	if i < 0 {
		return m
	}
	fs := &m.fields[i]
	for j := range fs.options {
		if fs.options[j].Value == value {
			fs.options[j].Selected = selected
		}
	}
	return m
}

// SetOptions replaces the options of a select or checklist field.
func (m Model) SetOptions(name string, opts []Option) Model {
	i := m.index(name)
	if i < 0 {
		return m
	}
	fs := &m.fields[i]
	fs.options = slices.Clone(opts)
	fs.cursor = min(fs.cursor, max(len(opts)-1, 0))
	return m
}

// SetLoading switches the submit button into its busy state, during which
// submit requests are ignored. Field edits stay live.
func (m Model) SetLoading(loading bool) Model {
	m.loading = loading
	return m
}

// Loading reports whether the submit button is busy.
func (m Model) Loading() bool {
	return m.loading
}

// SetFooter sets the line drawn between the fields and the submit button.
func (m Model) SetFooter(s string) Model {
	m.footer = s
	return m
}

// SetSize sets the space the form may occupy. A zero height disables
// scrolling.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.body.Width = m.config.Width
	m.body.Height = max(height-m.headerHeight(), 1)
	m.ensureFocusVisible()
	return m
}
