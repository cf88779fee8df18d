package app

import (
	"fmt"
	"strings"

	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/ui/styles"
)

// receiptMarkdown summarises an accepted registration.
func receiptMarkdown(p registration.Payload, qrRef string) string {
	var b strings.Builder
	b.WriteString("## Registration Receipt\n\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", p.Name)
	fmt.Fprintf(&b, "- **College:** %s (%s, year %s)\n", p.College, p.Department, p.Year)
	fmt.Fprintf(&b, "- **Contact:** %s, %s\n", p.Mobile, p.Email)

	switch p.Mode {
	case registration.ModeCatalog:
		b.WriteString("\n| Event | Fee |\n|---|---|\n")
		for _, ev := range p.SelectedEvents {
			fmt.Fprintf(&b, "| %s | %s |\n", ev.Name, styles.Rupees(float64(ev.Price)))
		}
	case registration.ModeSoloTeam:
		if p.EventType == registration.EventTeam {
			fmt.Fprintf(&b, "- **Entry:** team, %s, %d members\n", p.TeamEvent, p.TeamSize)
		} else {
			b.WriteString("- **Entry:** solo\n")
		}
	}

	fmt.Fprintf(&b, "\n**Amount due:** %s\n", styles.Rupees(p.TotalAmount))
	if !strings.HasPrefix(qrRef, "data:") {
		fmt.Fprintf(&b, "\nPayment QR: %s\n", qrRef)
	}
	return b.String()
}
