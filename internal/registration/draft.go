package registration

import (
	"slices"
	"strconv"
)

// Field names a scalar draft field. The values double as JSON keys.
type Field string

const (
	FieldName       Field = "name"
	FieldCollege    Field = "college"
	FieldDepartment Field = "department"
	FieldYear       Field = "year"
	FieldMobile     Field = "mobile"
	FieldEmail      Field = "email"
	FieldEventType  Field = "eventType"
	FieldTeamEvent  Field = "teamEvent"
	FieldTeamSize   Field = "teamSize"
)

// IdentityFields are required in every pricing mode, in form order.
var IdentityFields = []Field{FieldName, FieldCollege, FieldDepartment, FieldYear, FieldMobile, FieldEmail}

// Years are the accepted values of the year field.
var Years = []string{"1", "2", "3", "4"}

// EventType is the solo or team choice of the solo_team mode.
type EventType string

const (
	EventSolo EventType = "solo"
	EventTeam EventType = "team"
)

// Draft is the attendee's in-progress registration.
type Draft struct {
	Name       string
	College    string
	Department string
	Year       string
	Mobile     string
	Email      string

	// Selected holds catalog ids in the order they were picked.
	Selected    []int
	TotalAmount int

	EventType EventType
	TeamEvent string
	// TeamSize is zero while unset.
	TeamSize int
}

func (d Draft) clone() Draft {
	d.Selected = slices.Clone(d.Selected)
	return d
}

// Value returns the string form of a scalar field.
func (d Draft) Value(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldCollege:
		return d.College
	case FieldDepartment:
		return d.Department
	case FieldYear:
		return d.Year
	case FieldMobile:
		return d.Mobile
	case FieldEmail:
		return d.Email
	case FieldEventType:
		return string(d.EventType)
	case FieldTeamEvent:
		return d.TeamEvent
	case FieldTeamSize:
		if d.TeamSize == 0 {
			return ""
		}
		return strconv.Itoa(d.TeamSize)
	}
	return ""
}
