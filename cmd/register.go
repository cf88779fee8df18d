package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

// registerFlags are the form fields given on the command line.
type registerFlags struct {
	name       string
	college    string
	department string
	year       string
	mobile     string
	email      string
	events     []int
	eventType  string
	teamEvent  string
	teamSize   int
}

func newRegisterCmd(o *options) *cobra.Command {
	var f registerFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Submit one registration without the form",
		Long: `Submit one registration from flags, using the same rules as the form.

The pricing mode decides which event flags apply:
  catalog    --events (ids from 'electryonz catalog')
  fixed      none
  solo_team  --event-type, and --team-event with --team-size for teams

On success the payment QR code reference is printed.

Examples:
  electryonz register --name Asha --college "PSG Tech" --department ECE \
    --year 3 --mobile 9876543210 --email asha@example.com --events 1,2,3

  electryonz register --mode solo_team --event-type team --team-event ppt \
    --team-size 3 --name Asha ...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer o.close()

			svc, err := buildServices(o.cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := f.apply(svc.ctrl); err != nil {
				return err
			}

			outcome, err := svc.ctrl.Submit(cmd.Context())
			switch outcome {
			case registration.OutcomeAccepted:
			case registration.OutcomeInvalid:
				var verr *registration.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("%w (missing: %s)", err, strings.Join(verr.Fields, ", "))
				}
				return err
			default:
				return fmt.Errorf("%s: %w", outcome.Message(), err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, outcome.Message())
			_, _ = fmt.Fprintf(out, "Amount due: %s\n", styles.Rupees(svc.ctrl.AmountDue()))
			_, _ = fmt.Fprintf(out, "Payment QR: %s\n", svc.ctrl.QRCodeURL())
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "attendee name")
	fl.StringVar(&f.college, "college", "", "college")
	fl.StringVar(&f.department, "department", "", "department")
	fl.StringVar(&f.year, "year", "", "year of study, 1 to 4")
	fl.StringVar(&f.mobile, "mobile", "", "mobile number")
	fl.StringVar(&f.email, "email", "", "email address")
	fl.IntSliceVar(&f.events, "events", nil, "catalog event ids, comma separated")
	fl.StringVar(&f.eventType, "event-type", "", "solo or team (solo_team mode)")
	fl.StringVar(&f.teamEvent, "team-event", "", "team event key, e.g. ppt (solo_team mode)")
	fl.IntVar(&f.teamSize, "team-size", 0, "number of team members (solo_team mode)")
	return cmd
}

// apply copies the flags into the controller's draft.
func (f registerFlags) apply(c *registration.Controller) error {
	identity := []struct {
		field registration.Field
		value string
	}{
		{registration.FieldName, f.name},
		{registration.FieldCollege, f.college},
		{registration.FieldDepartment, f.department},
		{registration.FieldYear, f.year},
		{registration.FieldMobile, f.mobile},
		{registration.FieldEmail, f.email},
	}
	for _, x := range identity {
		if err := c.UpdateField(x.field, x.value); err != nil {
			return fmt.Errorf("--%s: %w", x.field, err)
		}
	}

	if len(f.events) > 0 && c.Mode() != registration.ModeCatalog {
		return fmt.Errorf("--events needs the catalog pricing mode, not %s", c.Mode())
	}
	if (f.eventType != "" || f.teamEvent != "" || f.teamSize != 0) && c.Mode() != registration.ModeSoloTeam {
		return fmt.Errorf("--event-type, --team-event and --team-size need the solo_team pricing mode, not %s", c.Mode())
	}

	for _, id := range f.events {
		if c.IsSelected(id) {
			continue
		}
		if err := c.ToggleEvent(id); err != nil {
			return fmt.Errorf("--events %d: %w", id, err)
		}
	}

	if f.eventType != "" {
		if err := c.SetEventType(registration.EventType(f.eventType)); err != nil {
			return fmt.Errorf("--event-type: %w", err)
		}
	}
	if f.teamEvent != "" {
		if err := c.SetTeamEvent(f.teamEvent); err != nil {
			return fmt.Errorf("--team-event: %w", err)
		}
	}
	if f.teamSize != 0 {
		if err := c.SetTeamSize(f.teamSize); err != nil {
			return fmt.Errorf("--team-size: %w", err)
		}
	}
	return nil
}
