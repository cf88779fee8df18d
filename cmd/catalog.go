package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/electryonz/internal/config"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

func newCatalogCmd(o *options) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the active pricing",
		Long: `Print the pricing mode and fees in effect.

With --save the active catalog and team events are written into the config
file under pricing, so they can be edited there. Other settings in the file
are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer o.close()

			p := o.cfg.Pricing
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, renderPricing(p))
			if p.TeamPriceMatchesSolo() {
				_, _ = fmt.Fprintf(out, "\nNote: team entries cost the same as solo entries (%s).\n",
					styles.Rupees(float64(p.TeamPrice)))
			}

			if !save {
				return nil
			}
			if err := config.SaveCatalog(o.configPath, p.Catalog, p.TeamEvents); err != nil {
				return fmt.Errorf("saving catalog: %w", err)
			}
			_, _ = fmt.Fprintf(out, "\nCatalog written to %s\n", o.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the catalog and team events into the config file")
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)).
		Headers(headers...)
}

// renderPricing draws the fee table for the pricing mode.
func renderPricing(p registration.Pricing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pricing mode: %s\n\n", p.Mode)

	switch p.Mode {
	case registration.ModeCatalog:
		t := newTable("ID", "Event", "Group", "Fee")
		for _, ev := range p.Catalog.Technical {
			t.Row(strconv.Itoa(ev.ID), ev.Name, "Technical", styles.Rupees(float64(ev.Price)))
		}
		for _, ev := range p.Catalog.NonTechnical {
			t.Row(strconv.Itoa(ev.ID), ev.Name, "Non-Technical", styles.Rupees(float64(ev.Price)))
		}
		b.WriteString(t.Render())
		if p.Discount.Percent > 0 {
			fmt.Fprintf(&b, "\n%d%% off the total when %d or more events are selected.",
				p.Discount.Percent, p.Discount.Threshold)
		}

	case registration.ModeFixed:
		fmt.Fprintf(&b, "Registration fee: %s", styles.Rupees(float64(p.FixedAmount)))

	case registration.ModeSoloTeam:
		fees := newTable("Entry", "Fee").
			Row("Solo", styles.Rupees(float64(p.SoloPrice))).
			Row("Team", styles.Rupees(float64(p.TeamPrice)))
		b.WriteString(fees.Render())
		b.WriteString("\n\nTeam events\n")
		events := newTable("Key", "Event", "Team size")
		for _, te := range p.TeamEvents {
			events.Row(te.Key, te.Name, fmt.Sprintf("%d-%d", te.MinSize, te.MaxSize))
		}
		b.WriteString(events.Render())
	}
	return b.String()
}
