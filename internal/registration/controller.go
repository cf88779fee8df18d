// Package registration holds the symposium registration form's state and rules:
// the attendee draft, event selection, fee computation for each pricing mode,
// validation, and the submit lifecycle against a Registrar.
package registration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/zjrosen/electryonz/internal/log"
)

// Registrar sends a registration to the remote service.
// Implementations return *ServerRejection for non-2xx answers and
// *TransportFailure for network or decoding problems.
type Registrar interface {
	Register(ctx context.Context, p Payload) (Receipt, error)
}

// Outcome classifies how a submit attempt ended.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeInvalid
	OutcomeRejected
	OutcomeFailed
	OutcomeBusy
)

// Message is the notice shown to the user for the outcome. Invalid outcomes
// use the ValidationError text instead.
func (o Outcome) Message() string {
	switch o {
	case OutcomeAccepted:
		return "Registration successful! Scan the QR code to complete the payment."
	case OutcomeRejected:
		return "Registration failed. Please try again."
	case OutcomeFailed:
		return "An error occurred. Please try again later."
	case OutcomeBusy:
		return "Submitting..."
	default:
		return ""
	}
}

// Controller owns one registration draft and its submission state.
// It is not safe for concurrent use; drive it from a single goroutine such
// as the Bubble Tea update loop.
type Controller struct {
	pricing   Pricing
	registrar Registrar
	events    map[int]CatalogEvent

	draft      Draft
	submitting bool
	qrCodeURL  string
}

// NewController validates pricing and starts an empty draft.
func NewController(pricing Pricing, registrar Registrar) (*Controller, error) {
	if err := pricing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pricing: %w", err)
	}
	c := &Controller{
		pricing:   pricing,
		registrar: registrar,
		events:    make(map[int]CatalogEvent),
	}
	for _, ev := range pricing.Catalog.All() {
		c.events[ev.ID] = ev
	}
	c.Reset()
	return c, nil
}

// Reset discards the draft and any previous result.
func (c *Controller) Reset() {
	c.draft = Draft{}
	c.qrCodeURL = ""
	switch c.pricing.Mode {
	case ModeFixed:
		c.draft.TotalAmount = c.pricing.FixedAmount
	case ModeSoloTeam:
		c.draft.EventType = EventSolo
		c.draft.TotalAmount = c.pricing.SoloPrice
	}
}

// Pricing returns the configuration the controller was built with.
func (c *Controller) Pricing() Pricing { return c.pricing }

// Mode returns the active pricing mode.
func (c *Controller) Mode() Mode { return c.pricing.Mode }

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft { return c.draft.clone() }

// Submitting reports whether a request is outstanding.
func (c *Controller) Submitting() bool { return c.submitting }

// QRCodeURL is the payment QR reference from the last successful submit,
// or "" when there is none.
func (c *Controller) QRCodeURL() string { return c.qrCodeURL }

// TotalAmount is the undiscounted fee.
func (c *Controller) TotalAmount() int { return c.draft.TotalAmount }

// IsSelected reports whether catalog event id is selected.
func (c *Controller) IsSelected(id int) bool {
	return slices.Contains(c.draft.Selected, id)
}

// SelectedEvents returns the selected catalog events in selection order.
func (c *Controller) SelectedEvents() []CatalogEvent {
	out := make([]CatalogEvent, 0, len(c.draft.Selected))
	for _, id := range c.draft.Selected {
		out = append(out, c.events[id])
	}
	return out
}

// UpdateField sets one scalar field. Pricing-relevant fields apply their rules:
// eventType reprices, teamEvent clears teamSize, teamSize is range checked.
// On error the draft is unchanged.
func (c *Controller) UpdateField(f Field, value string) error {
	switch f {
	case FieldName:
		c.draft.Name = value
	case FieldCollege:
		c.draft.College = value
	case FieldDepartment:
		c.draft.Department = value
	case FieldMobile:
		c.draft.Mobile = value
	case FieldEmail:
		c.draft.Email = value
	case FieldYear:
		if value != "" && !slices.Contains(Years, value) {
			return fmt.Errorf("year %q: %w", value, ErrInvalidValue)
		}
		c.draft.Year = value
	case FieldEventType:
		return c.SetEventType(EventType(value))
	case FieldTeamEvent:
		return c.SetTeamEvent(value)
	case FieldTeamSize:
		if value == "" {
			return c.SetTeamSize(0)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("team size %q: %w", value, ErrInvalidValue)
		}
		return c.SetTeamSize(n)
	default:
		return fmt.Errorf("%q: %w", f, ErrUnknownField)
	}
	log.Debug(log.CatForm, "field updated", "field", f)
	return nil
}

// ToggleEvent selects catalog event id, or deselects it if already selected,
// keeping TotalAmount equal to the sum of selected prices.
func (c *Controller) ToggleEvent(id int) error {
	if c.pricing.Mode != ModeCatalog {
		return fmt.Errorf("toggle event: %w", ErrUnavailable)
	}
	ev, ok := c.events[id]
	if !ok {
		log.Warn(log.CatPricing, "toggle of unknown event ignored", "id", id)
		return fmt.Errorf("event %d: %w", id, ErrUnknownEvent)
	}

	if i := slices.Index(c.draft.Selected, id); i >= 0 {
		c.draft.Selected = slices.Delete(c.draft.Selected, i, i+1)
		c.draft.TotalAmount -= ev.Price
	} else {
		c.draft.Selected = append(c.draft.Selected, id)
		c.draft.TotalAmount += ev.Price
	}
	log.Debug(log.CatPricing, "event toggled",
		"id", id, "selected", len(c.draft.Selected), "total", c.draft.TotalAmount)
	return nil
}

// SetEventType switches between solo and team entry and reprices the draft.
// Team details are kept so switching back restores them.
func (c *Controller) SetEventType(t EventType) error {
	if c.pricing.Mode != ModeSoloTeam {
		return fmt.Errorf("event type: %w", ErrUnavailable)
	}
	switch t {
	case EventSolo:
		c.draft.TotalAmount = c.pricing.SoloPrice
	case EventTeam:
		c.draft.TotalAmount = c.pricing.TeamPrice
	default:
		return fmt.Errorf("event type %q: %w", t, ErrInvalidValue)
	}
	c.draft.EventType = t
	log.Debug(log.CatPricing, "event type set", "type", t, "total", c.draft.TotalAmount)
	return nil
}

// SetTeamEvent chooses the team event and clears the team size.
// An empty key unsets both.
func (c *Controller) SetTeamEvent(key string) error {
	if c.pricing.Mode != ModeSoloTeam {
		return fmt.Errorf("team event: %w", ErrUnavailable)
	}
	if key != "" {
		if _, ok := c.pricing.TeamEvent(key); !ok {
			return fmt.Errorf("team event %q: %w", key, ErrInvalidValue)
		}
	}
	c.draft.TeamEvent = key
	c.draft.TeamSize = 0
	return nil
}

// SetTeamSize sets the team size for the chosen team event; 0 unsets it.
func (c *Controller) SetTeamSize(n int) error {
	if c.pricing.Mode != ModeSoloTeam {
		return fmt.Errorf("team size: %w", ErrUnavailable)
	}
	if n == 0 {
		c.draft.TeamSize = 0
		return nil
	}
	te, ok := c.pricing.TeamEvent(c.draft.TeamEvent)
	if !ok {
		return fmt.Errorf("team size without a team event: %w", ErrInvalidValue)
	}
	if !te.Allows(n) {
		return fmt.Errorf("team size %d outside %d..%d: %w", n, te.MinSize, te.MaxSize, ErrInvalidValue)
	}
	c.draft.TeamSize = n
	return nil
}

// DiscountedTotal applies the bulk discount to TotalAmount. It is computed on
// demand and never stored. Outside catalog mode it equals TotalAmount.
func (c *Controller) DiscountedTotal() float64 {
	if c.pricing.Mode != ModeCatalog {
		return float64(c.draft.TotalAmount)
	}
	return c.pricing.Discount.Apply(c.draft.TotalAmount, len(c.draft.Selected))
}

// AmountDue is the amount sent with the registration.
func (c *Controller) AmountDue() float64 {
	return c.DiscountedTotal()
}

// Validate reports a *ValidationError when the draft cannot be submitted.
func (c *Controller) Validate() error {
	fields := identityFailures(c.draft)
	switch c.pricing.Mode {
	case ModeCatalog:
		if len(c.draft.Selected) == 0 {
			fields = append(fields, "selectedEvents")
		}
	case ModeSoloTeam:
		if c.draft.EventType == EventTeam {
			if c.draft.TeamEvent == "" {
				fields = append(fields, string(FieldTeamEvent))
			}
			if c.draft.TeamSize == 0 {
				fields = append(fields, string(FieldTeamSize))
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Mode: c.pricing.Mode, Fields: fields}
}

// Payload snapshots the draft as the request body.
func (c *Controller) Payload() Payload {
	d := c.draft
	p := Payload{
		Mode:        c.pricing.Mode,
		Name:        d.Name,
		College:     d.College,
		Department:  d.Department,
		Year:        d.Year,
		Mobile:      d.Mobile,
		Email:       d.Email,
		TotalAmount: c.AmountDue(),
	}
	switch c.pricing.Mode {
	case ModeCatalog:
		p.SelectedEvents = c.SelectedEvents()
	case ModeSoloTeam:
		p.EventType = d.EventType
		p.TeamEvent = d.TeamEvent
		p.TeamSize = d.TeamSize
	}
	return p
}

// Begin validates the draft and enters the submitting state, clearing any
// previous QR reference. The returned payload is what must be sent.
func (c *Controller) Begin() (Payload, error) {
	if c.submitting {
		return Payload{}, ErrSubmitInFlight
	}
	if err := c.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Info(log.CatForm, "submit blocked by validation", "fields", strings.Join(verr.Fields, ","))
		}
		return Payload{}, err
	}
	c.qrCodeURL = ""
	c.submitting = true
	p := c.Payload()
	log.Info(log.CatSubmit, "submit started", "mode", p.Mode, "amount", p.TotalAmount)
	return p, nil
}

// Finish leaves the submitting state and records the result of the request
// started by Begin.
func (c *Controller) Finish(r Receipt, err error) Outcome {
	c.submitting = false

	if err == nil && r.QRCodeURL == "" {
		err = &TransportFailure{Err: ErrMalformedResponse}
	}

	var rejection *ServerRejection
	switch {
	case err == nil:
		c.qrCodeURL = r.QRCodeURL
		log.Info(log.CatSubmit, "registration accepted", "qr", r.QRCodeURL)
		return OutcomeAccepted
	case errors.As(err, &rejection):
		log.Warn(log.CatSubmit, "registration rejected", "status", rejection.StatusCode)
		return OutcomeRejected
	default:
		log.ErrorErr(log.CatSubmit, "registration request failed", err)
		return OutcomeFailed
	}
}

// Send performs the request for a payload returned by Begin. It reads no
// draft state, so it may run off the update loop while edits continue.
func (c *Controller) Send(ctx context.Context, p Payload) (Receipt, error) {
	if c.registrar == nil {
		return Receipt{}, &TransportFailure{Err: errors.New("no registrar configured")}
	}
	r, err := c.registrar.Register(ctx, p)
	if err == nil && r.QRCodeURL == "" {
		err = &TransportFailure{Err: ErrMalformedResponse}
	}
	return r, err
}

// Submit runs the whole submit flow synchronously. The returned error is the
// validation, rejection or transport error behind a non-accepted outcome.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	p, err := c.Begin()
	if errors.Is(err, ErrSubmitInFlight) {
		return OutcomeBusy, err
	}
	if err != nil {
		return OutcomeInvalid, err
	}
	r, err := c.Send(ctx, p)
	return c.Finish(r, err), err
}
