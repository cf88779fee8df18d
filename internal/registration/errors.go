package registration

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmitInFlight rejects a submit while the previous one is outstanding.
	ErrSubmitInFlight = errors.New("a registration is already being submitted")
	// ErrUnknownEvent is returned when a toggled id is not in the catalog.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownField is returned for field names the draft does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnavailable is returned for fields or actions outside the pricing mode.
	ErrUnavailable = errors.New("not available in this pricing mode")
	// ErrInvalidValue is returned when a field value is outside its allowed set.
	ErrInvalidValue = errors.New("invalid value")
	// ErrMalformedResponse marks a success status whose body carried no QR reference.
	ErrMalformedResponse = errors.New("malformed registration response")
)

// ValidationError blocks a submit before any request is made. Its message is
// the single generic prompt shown to the user; Fields lists what failed.
type ValidationError struct {
	Mode   Mode
	Fields []string
}

func (e *ValidationError) Error() string {
	switch e.Mode {
	case ModeCatalog:
		return "Please fill all the fields and select at least one event."
	case ModeSoloTeam:
		return "Please fill all the fields and choose a team event and team size."
	default:
		return "Please fill all the fields."
	}
}

// ServerRejection is a non-2xx answer from the registration endpoint.
type ServerRejection struct {
	StatusCode int
	Body       string
}

func (e *ServerRejection) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("registration rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("registration rejected with status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// TransportFailure covers network errors and unparseable success bodies.
type TransportFailure struct {
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("registration request failed: %v", e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }
