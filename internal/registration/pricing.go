package registration

import (
	"fmt"
	"strings"
)

// Mode selects how the registration fee is computed.
type Mode string

const (
	// ModeCatalog prices by the sum of selected catalog events, with a bulk discount.
	ModeCatalog Mode = "catalog"
	// ModeFixed charges one constant amount with no event selection.
	ModeFixed Mode = "fixed"
	// ModeSoloTeam charges a constant that depends on solo or team entry.
	ModeSoloTeam Mode = "solo_team"
)

// ParseMode accepts a mode name or its revision alias (rev1, rev2, rev3).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "catalog", "rev1", "1":
		return ModeCatalog, nil
	case "fixed", "rev2", "2":
		return ModeFixed, nil
	case "solo_team", "solo-team", "rev3", "3":
		return ModeSoloTeam, nil
	default:
		return "", fmt.Errorf("unknown pricing mode %q (want catalog, fixed or solo_team)", s)
	}
}

// Discount applies Percent off once at least Threshold events are selected.
type Discount struct {
	Threshold int `mapstructure:"threshold" yaml:"threshold"`
	Percent   int `mapstructure:"percent" yaml:"percent"`
}

// Apply returns the amount due for total with count selected events.
func (d Discount) Apply(total, count int) float64 {
	if d.Threshold <= 0 || count < d.Threshold {
		return float64(total)
	}
	return float64(total*(100-d.Percent)) / 100
}

// TeamEvent is an event that can be entered as a team, with its allowed size.
type TeamEvent struct {
	Key     string `mapstructure:"key" yaml:"key"`
	Name    string `mapstructure:"name" yaml:"name"`
	MinSize int    `mapstructure:"min_size" yaml:"min_size"`
	MaxSize int    `mapstructure:"max_size" yaml:"max_size"`
}

// Allows reports whether n members is a valid team for this event.
func (t TeamEvent) Allows(n int) bool {
	return n >= t.MinSize && n <= t.MaxSize
}

// Pricing is the tagged pricing configuration. Only the fields belonging to
// Mode are consulted.
type Pricing struct {
	Mode Mode `mapstructure:"mode" yaml:"mode"`

	Catalog  Catalog  `mapstructure:"catalog" yaml:"catalog"`
	Discount Discount `mapstructure:"discount" yaml:"discount"`

	FixedAmount int `mapstructure:"fixed_amount" yaml:"fixed_amount"`

	SoloPrice  int         `mapstructure:"solo_price" yaml:"solo_price"`
	TeamPrice  int         `mapstructure:"team_price" yaml:"team_price"`
	TeamEvents []TeamEvent `mapstructure:"team_events" yaml:"team_events"`
}

// DefaultTeamEvents returns the two events that accept team entries.
func DefaultTeamEvents() []TeamEvent {
	return []TeamEvent{
		{Key: "ppt", Name: "Paper Presentation", MinSize: 2, MaxSize: 3},
		{Key: "project-expo", Name: "Project Expo", MinSize: 2, MaxSize: 4},
	}
}

// DefaultPricing returns catalog pricing with the published event list.
// Solo and team entries both cost 300; the published form never charged
// teams differently.
func DefaultPricing() Pricing {
	return Pricing{
		Mode:        ModeCatalog,
		Catalog:     DefaultCatalog(),
		Discount:    Discount{Threshold: 3, Percent: 10},
		FixedAmount: 300,
		SoloPrice:   300,
		TeamPrice:   300,
		TeamEvents:  DefaultTeamEvents(),
	}
}

// TeamEvent looks up a team event by key.
func (p Pricing) TeamEvent(key string) (TeamEvent, bool) {
	for _, te := range p.TeamEvents {
		if te.Key == key {
			return te, true
		}
	}
	return TeamEvent{}, false
}

// Validate checks the fields the active mode depends on.
func (p Pricing) Validate() error {
	switch p.Mode {
	case ModeCatalog:
		if p.Catalog.Empty() {
			return fmt.Errorf("catalog must list at least one event")
		}
		seen := make(map[int]bool)
		for _, ev := range p.Catalog.All() {
			if seen[ev.ID] {
				return fmt.Errorf("catalog event id %d is listed more than once", ev.ID)
			}
			seen[ev.ID] = true
			if ev.Price < 0 {
				return fmt.Errorf("catalog event %d has negative price %d", ev.ID, ev.Price)
			}
		}
		if p.Discount.Threshold < 0 {
			return fmt.Errorf("discount.threshold must not be negative, got %d", p.Discount.Threshold)
		}
		if p.Discount.Percent < 0 || p.Discount.Percent > 100 {
			return fmt.Errorf("discount.percent must be between 0 and 100, got %d", p.Discount.Percent)
		}
	case ModeFixed:
		if p.FixedAmount < 0 {
			return fmt.Errorf("fixed_amount must not be negative, got %d", p.FixedAmount)
		}
	case ModeSoloTeam:
		if p.SoloPrice < 0 || p.TeamPrice < 0 {
			return fmt.Errorf("solo_price and team_price must not be negative")
		}
		if len(p.TeamEvents) == 0 {
			return fmt.Errorf("team_events must list at least one event")
		}
		keys := make(map[string]bool)
		for _, te := range p.TeamEvents {
			if te.Key == "" {
				return fmt.Errorf("team event %q is missing a key", te.Name)
			}
			if keys[te.Key] {
				return fmt.Errorf("team event %q is listed more than once", te.Key)
			}
			keys[te.Key] = true
			if te.MinSize < 1 || te.MaxSize < te.MinSize {
				return fmt.Errorf("team event %q has invalid size range %d..%d", te.Key, te.MinSize, te.MaxSize)
			}
		}
	default:
		return fmt.Errorf("unknown pricing mode %q (want catalog, fixed or solo_team)", p.Mode)
	}
	return nil
}

// TeamPriceMatchesSolo reports the solo_team configuration where entering as
// a team costs the same as entering solo.
func (p Pricing) TeamPriceMatchesSolo() bool {
	return p.Mode == ModeSoloTeam && p.TeamPrice == p.SoloPrice
}
