package registration

import "encoding/json"

// Payload is the immutable snapshot sent to the registration endpoint.
// Its JSON shape depends on Mode.
type Payload struct {
	Mode Mode

	Name       string
	College    string
	Department string
	Year       string
	Mobile     string
	Email      string

	SelectedEvents []CatalogEvent
	EventType      EventType
	TeamEvent      string
	TeamSize       int

	TotalAmount float64
}

type identityJSON struct {
	Name       string `json:"name"`
	College    string `json:"college"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email"`
}

type catalogJSON struct {
	identityJSON
	SelectedEvents []CatalogEvent `json:"selectedEvents"`
	TotalAmount    float64        `json:"totalAmount"`
}

type fixedJSON struct {
	identityJSON
	TotalAmount float64 `json:"totalAmount"`
}

type soloTeamJSON struct {
	identityJSON
	EventType   EventType `json:"eventType"`
	TeamEvent   string    `json:"teamEvent"`
	TeamSize    *int      `json:"teamSize"`
	TotalAmount float64   `json:"totalAmount"`
}

// MarshalJSON writes the request body for the payload's pricing mode.
// Solo entries send an empty teamEvent and a null teamSize.
func (p Payload) MarshalJSON() ([]byte, error) {
	id := identityJSON{
		Name:       p.Name,
		College:    p.College,
		Department: p.Department,
		Year:       p.Year,
		Mobile:     p.Mobile,
		Email:      p.Email,
	}
	switch p.Mode {
	case ModeCatalog:
		events := p.SelectedEvents
		if events == nil {
			events = []CatalogEvent{}
		}
		return json.Marshal(catalogJSON{identityJSON: id, SelectedEvents: events, TotalAmount: p.TotalAmount})
	case ModeSoloTeam:
		body := soloTeamJSON{identityJSON: id, EventType: p.EventType, TotalAmount: p.TotalAmount}
		if p.EventType == EventTeam {
			body.TeamEvent = p.TeamEvent
			if p.TeamSize > 0 {
				size := p.TeamSize
				body.TeamSize = &size
			}
		}
		return json.Marshal(body)
	default:
		return json.Marshal(fixedJSON{identityJSON: id, TotalAmount: p.TotalAmount})
	}
}

// Receipt is the part of a successful response the form uses.
type Receipt struct {
	QRCodeURL string `json:"qrCodeURL"`
}
