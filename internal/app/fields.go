package app

import (
	"fmt"
	"strconv"

	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/ui/form"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

// Checklist keys for the two catalog sections.
const (
	keyTechnical    = "technical"
	keyNonTechnical = "non_technical"
)

var fieldLabels = map[string]string{
	string(registration.FieldName):       "Name",
	string(registration.FieldCollege):    "College",
	string(registration.FieldDepartment): "Department",
	string(registration.FieldYear):       "Year",
	string(registration.FieldMobile):     "Mobile Number",
	string(registration.FieldEmail):      "Email ID",
	string(registration.FieldEventType):  "Event Type",
	string(registration.FieldTeamEvent):  "Team Event",
	string(registration.FieldTeamSize):   "Team Size",
	"selectedEvents":                     "Events",
}

var yearLabels = []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}

func isTeam(values map[string]string) bool {
	return values[string(registration.FieldEventType)] == string(registration.EventTeam)
}

// formConfig lays out the form for the controller's pricing mode.
func formConfig(p registration.Pricing) form.Config {
	fields := []form.FieldConfig{
		textField(registration.FieldName, "", 80),
		textField(registration.FieldCollege, "", 120),
		textField(registration.FieldDepartment, "", 80),
		yearField(),
		textField(registration.FieldMobile, "10-digit number", 15),
		textField(registration.FieldEmail, "you@example.com", 120),
	}

	switch p.Mode {
	case registration.ModeCatalog:
		fields = append(fields,
			eventField(keyTechnical, "Technical Events", p.Catalog.Technical),
			eventField(keyNonTechnical, "Non-Technical Events", p.Catalog.NonTechnical),
		)
	case registration.ModeSoloTeam:
		teamEvents := make([]form.Option, 0, len(p.TeamEvents))
		for _, te := range p.TeamEvents {
			teamEvents = append(teamEvents, form.Option{
				Label: te.Name,
				Value: te.Key,
				Hint:  fmt.Sprintf("%d-%d members", te.MinSize, te.MaxSize),
			})
		}
		fields = append(fields,
			form.FieldConfig{
				Key:   string(registration.FieldEventType),
				Type:  form.FieldSelect,
				Label: fieldLabels[string(registration.FieldEventType)],
				Options: []form.Option{
					{Label: "Solo", Value: string(registration.EventSolo), Hint: styles.Rupees(float64(p.SoloPrice)), Selected: true},
					{Label: "Team", Value: string(registration.EventTeam), Hint: styles.Rupees(float64(p.TeamPrice))},
				},
			},
			form.FieldConfig{
				Key:         string(registration.FieldTeamEvent),
				Type:        form.FieldSelect,
				Label:       fieldLabels[string(registration.FieldTeamEvent)],
				Options:     teamEvents,
				VisibleWhen: isTeam,
			},
			form.FieldConfig{
				Key:         string(registration.FieldTeamSize),
				Type:        form.FieldSelect,
				Label:       fieldLabels[string(registration.FieldTeamSize)],
				VisibleWhen: isTeam,
			},
		)
	}

	return form.Config{
		Title:        "Electryonz'25",
		Subtitle:     "Technical Symposium Registration",
		Fields:       fields,
		SubmitLabel:  "Pay with Google Pay",
		LoadingLabel: "Submitting...",
	}
}

func textField(f registration.Field, placeholder string, limit int) form.FieldConfig {
	return form.FieldConfig{
		Key:         string(f),
		Type:        form.FieldText,
		Label:       fieldLabels[string(f)],
		Placeholder: placeholder,
		CharLimit:   limit,
	}
}

func yearField() form.FieldConfig {
	opts := make([]form.Option, len(registration.Years))
	for i, y := range registration.Years {
		opts[i] = form.Option{Label: yearLabels[i], Value: y}
	}
	return form.FieldConfig{
		Key:     string(registration.FieldYear),
		Type:    form.FieldSelect,
		Label:   fieldLabels[string(registration.FieldYear)],
		Options: opts,
	}
}

func eventField(key, label string, events []registration.CatalogEvent) form.FieldConfig {
	opts := make([]form.Option, len(events))
	for i, ev := range events {
		opts[i] = form.Option{
			Label: ev.Name,
			Value: strconv.Itoa(ev.ID),
			Hint:  styles.Rupees(float64(ev.Price)),
		}
	}
	return form.FieldConfig{Key: key, Type: form.FieldChecklist, Label: label, Options: opts}
}

// teamSizeOptions lists the allowed sizes of a team event.
func teamSizeOptions(te registration.TeamEvent) []form.Option {
	var opts []form.Option
	for n := te.MinSize; n <= te.MaxSize; n++ {
		s := strconv.Itoa(n)
		opts = append(opts, form.Option{Label: s + " members", Value: s})
	}
	return opts
}

// applyChange forwards one form edit to the controller and, if the
// controller refuses it, puts the form back in step with the draft.
func (m Model) applyChange(c form.ChangeMsg) Model {
	var err error
	switch c.Key {
	case keyTechnical, keyNonTechnical:
		id, convErr := strconv.Atoi(c.Value)
		if convErr != nil {
			err = convErr
			break
		}
		if m.ctrl.IsSelected(id) != c.Selected {
			err = m.ctrl.ToggleEvent(id)
		}
		if err != nil || m.ctrl.IsSelected(id) != c.Selected {
			m.form = m.form.SetSelected(c.Key, c.Value, m.ctrl.IsSelected(id))
		}

	case string(registration.FieldTeamEvent):
		err = m.ctrl.SetTeamEvent(c.Value)
		var opts []form.Option
		if te, ok := m.ctrl.Pricing().TeamEvent(m.ctrl.Draft().TeamEvent); ok {
			opts = teamSizeOptions(te)
		}
		m.form = m.form.
			SetValue(string(registration.FieldTeamEvent), m.ctrl.Draft().TeamEvent).
			SetOptions(string(registration.FieldTeamSize), opts).
			SetValue(string(registration.FieldTeamSize), "")

	default:
		f := registration.Field(c.Key)
		err = m.ctrl.UpdateField(f, c.Value)
		if err != nil {
			m.form = m.form.SetValue(c.Key, m.ctrl.Draft().Value(f))
		}
	}

	if err != nil {
		log.Warn(log.CatUI, "form edit refused", "field", c.Key, "value", c.Value, "error", err)
	}
	return m.refreshFooter()
}

// totalLine renders the amount shown above the submit button.
func totalLine(c *registration.Controller) string {
	total := styles.Rupees(float64(c.TotalAmount()))
	if c.Mode() != registration.ModeCatalog {
		return styles.TotalStyle.Render(" Total Amount: " + total)
	}

	line := styles.TotalStyle.Render(" Total Amount: "+total) + " " +
		styles.DiscountStyle.Render("(After Discount: "+styles.Rupees(c.DiscountedTotal())+")")

	d := c.Pricing().Discount
	if d.Percent > 0 && len(c.Draft().Selected) < d.Threshold {
		line += "\n" + styles.HintStyle.Render(fmt.Sprintf(" Pick %d or more events for %d%% off", d.Threshold, d.Percent))
	}
	return line
}
