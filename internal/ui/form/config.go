// Package form provides a configuration-driven form with text, single-select
// and checklist fields, a live footer line and one submit button.
package form

import tea "github.com/charmbracelet/bubbletea"

// FieldType selects how a field is edited and drawn.
type FieldType int

const (
	// FieldText is a single-line text input.
	FieldText FieldType = iota
	// FieldSelect picks exactly one option, drawn as radio buttons.
	FieldSelect
	// FieldChecklist toggles any number of options, drawn as checkboxes.
	FieldChecklist
)

// Option is one choice of a select or checklist field.
type Option struct {
	Label string
	Value string
	// Hint is drawn right-aligned after the label, e.g. a price.
	Hint     string
	Selected bool
}

// FieldConfig defines one field.
type FieldConfig struct {
	Key         string
	Type        FieldType
	Label       string
	Hint        string
	Placeholder string
	Value       string // initial text value
	CharLimit   int
	Options     []Option

	// VisibleWhen hides the field unless it returns true for the current values.
	// Hidden fields are skipped by focus navigation.
	VisibleWhen func(values map[string]string) bool
}

// Config defines the whole form.
type Config struct {
	Title       string
	Subtitle    string
	Fields      []FieldConfig
	SubmitLabel string // default "Submit"
	// LoadingLabel replaces SubmitLabel while SetLoading(true) is in effect.
	LoadingLabel string
	Width        int // default 64

	// OnChange builds the message emitted after a field edit. When nil a
	// ChangeMsg is emitted.
	OnChange func(ChangeMsg) tea.Msg
	// OnSubmit builds the message emitted when the submit button is pressed.
	// When nil a SubmitMsg is emitted.
	OnSubmit func() tea.Msg
}

// ChangeMsg reports one field edit. For checklists Value is the toggled
// option and Selected its new state; for select and text fields Value is the
// new value.
type ChangeMsg struct {
	Key      string
	Value    string
	Selected bool
}

// SubmitMsg is sent when the submit button is activated.
type SubmitMsg struct{}
