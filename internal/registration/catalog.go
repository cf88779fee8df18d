package registration

// CatalogEvent is one paid event in the catalog pricing mode.
type CatalogEvent struct {
	ID    int    `mapstructure:"id" yaml:"id" json:"id"`
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	Price int    `mapstructure:"price" yaml:"price" json:"price"`
}

// Catalog groups the selectable events the way the form lists them.
type Catalog struct {
	Technical    []CatalogEvent `mapstructure:"technical" yaml:"technical"`
	NonTechnical []CatalogEvent `mapstructure:"non_technical" yaml:"non_technical"`
}

// DefaultCatalog returns the Electryonz'25 event list. Names are kept exactly
// as published, including the trailing space on Carrom and the unnamed
// non-technical event 11.
func DefaultCatalog() Catalog {
	return Catalog{
		Technical: []CatalogEvent{
			{ID: 1, Name: "Paper Presentation", Price: 200},
			{ID: 2, Name: "Project Expo", Price: 300},
			{ID: 3, Name: "Technical Quiz", Price: 150},
			{ID: 4, Name: "Tech Puzzles", Price: 400},
			{ID: 5, Name: "Coding Wizard", Price: 350},
			{ID: 6, Name: "Circuit Debugging", Price: 250},
		},
		NonTechnical: []CatalogEvent{
			{ID: 7, Name: "Chess Champions", Price: 200},
			{ID: 8, Name: "Carrom ", Price: 150},
			{ID: 9, Name: "IPL Auction", Price: 300},
			{ID: 10, Name: "Free Fire", Price: 200},
			{ID: 11, Name: "", Price: 250},
			{ID: 12, Name: "Dance", Price: 200},
		},
	}
}

// All returns technical events followed by non-technical ones.
func (c Catalog) All() []CatalogEvent {
	out := make([]CatalogEvent, 0, len(c.Technical)+len(c.NonTechnical))
	out = append(out, c.Technical...)
	return append(out, c.NonTechnical...)
}

// Lookup finds an event by id across both groups.
func (c Catalog) Lookup(id int) (CatalogEvent, bool) {
	for _, ev := range c.All() {
		if ev.ID == id {
			return ev, true
		}
	}
	return CatalogEvent{}, false
}

// Empty reports whether the catalog has no events at all.
func (c Catalog) Empty() bool {
	return len(c.Technical) == 0 && len(c.NonTechnical) == 0
}
