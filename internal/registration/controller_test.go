package registration_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/electryonz/internal/mocks"
	"github.com/zjrosen/electryonz/internal/registration"
)

func pricingFor(mode registration.Mode) registration.Pricing {
	p := registration.DefaultPricing()
	p.Mode = mode
	return p
}

func newController(t *testing.T, mode registration.Mode, r registration.Registrar) *registration.Controller {
	t.Helper()
	c, err := registration.NewController(pricingFor(mode), r)
	require.NoError(t, err)
	return c
}

func fillIdentity(t *testing.T, c *registration.Controller) {
	t.Helper()
	values := map[registration.Field]string{
		registration.FieldName:       "Asha",
		registration.FieldCollege:    "PSG Tech",
		registration.FieldDepartment: "ECE",
		registration.FieldYear:       "3",
		registration.FieldMobile:     "9876543210",
		registration.FieldEmail:      "asha@example.com",
	}
	for _, f := range registration.IdentityFields {
		require.NoError(t, c.UpdateField(f, values[f]))
	}
}

func TestToggleEvent_Examples(t *testing.T) {
	c := newController(t, registration.ModeCatalog, nil)

	require.NoError(t, c.ToggleEvent(1))
	require.NoError(t, c.ToggleEvent(2))
	require.Equal(t, 500, c.TotalAmount())
	require.Equal(t, 500.0, c.DiscountedTotal())

	require.NoError(t, c.ToggleEvent(3))
	require.Equal(t, 650, c.TotalAmount())
	require.Equal(t, 585.0, c.DiscountedTotal())
}

func TestToggleEvent_TwiceRestoresState(t *testing.T) {
	c := newController(t, registration.ModeCatalog, nil)
	require.NoError(t, c.ToggleEvent(4))
	before := c.Draft()

	require.NoError(t, c.ToggleEvent(9))
	require.NoError(t, c.ToggleEvent(9))

	require.Equal(t, before, c.Draft())
	require.False(t, c.IsSelected(9))
}

func TestToggleEvent_UnknownIDLeavesStateUntouched(t *testing.T) {
	c := newController(t, registration.ModeCatalog, nil)
	require.NoError(t, c.ToggleEvent(5))

	err := c.ToggleEvent(99)

	require.ErrorIs(t, err, registration.ErrUnknownEvent)
	require.Equal(t, 350, c.TotalAmount())
	require.Equal(t, []int{5}, c.Draft().Selected)
}

func TestToggleEvent_UnnamedEventIsSelectable(t *testing.T) {
	c := newController(t, registration.ModeCatalog, nil)

	require.NoError(t, c.ToggleEvent(11))

	events := c.SelectedEvents()
	require.Len(t, events, 1)
	require.Equal(t, registration.CatalogEvent{ID: 11, Name: "", Price: 250}, events[0])
}

func TestToggleEvent_OnlyInCatalogMode(t *testing.T) {
	c := newController(t, registration.ModeFixed, nil)
	require.ErrorIs(t, c.ToggleEvent(1), registration.ErrUnavailable)
	require.Equal(t, 300, c.TotalAmount())
}

func TestToggleEvent_SumInvariant(t *testing.T) {
	catalog := registration.DefaultCatalog().All()
	prices := make(map[int]int)
	ids := make([]int, 0, len(catalog))
	for _, ev := range catalog {
		prices[ev.ID] = ev.Price
		ids = append(ids, ev.ID)
	}

	rapid.Check(t, func(t *rapid.T) {
		c, err := registration.NewController(registration.DefaultPricing(), nil)
		require.NoError(t, err)

		steps := rapid.SliceOf(rapid.SampledFrom(ids)).Draw(t, "toggles")
		for _, id := range steps {
			require.NoError(t, c.ToggleEvent(id))

			sum := 0
			seen := make(map[int]bool)
			for _, sel := range c.Draft().Selected {
				require.False(t, seen[sel], "duplicate selection %d", sel)
				seen[sel] = true
				sum += prices[sel]
			}
			require.Equal(t, sum, c.TotalAmount())

			n := len(c.Draft().Selected)
			if n >= 3 {
				require.InDelta(t, float64(sum)*0.9, c.DiscountedTotal(), 1e-9)
			} else {
				require.Equal(t, float64(sum), c.DiscountedTotal())
			}
		}
	})
}

func TestUpdateField_PreservesOtherFields(t *testing.T) {
	c := newController(t, registration.ModeCatalog, nil)
	fillIdentity(t, c)
	require.NoError(t, c.ToggleEvent(2))

	require.NoError(t, c.UpdateField(registration.FieldCollege, "CIT"))

	d := c.Draft()
	require.Equal(t, "CIT", d.College)
	require.Equal(t, "Asha", d.Name)
	require.Equal(t, "asha@example.com", d.Email)
	require.Equal(t, 300, d.TotalAmount)
}

func TestUpdateField_Rejections(t *testing.T) {
	c := newController(t, registration.ModeCatalog, nil)

	require.ErrorIs(t, c.UpdateField(registration.FieldYear, "5"), registration.ErrInvalidValue)
	require.ErrorIs(t, c.UpdateField("shoeSize", "9"), registration.ErrUnknownField)
	require.ErrorIs(t, c.UpdateField(registration.FieldEventType, "team"), registration.ErrUnavailable)
	require.Equal(t, "", c.Draft().Year)
}

func TestSoloTeam_Pricing(t *testing.T) {
	p := pricingFor(registration.ModeSoloTeam)
	p.TeamPrice = 500
	c, err := registration.NewController(p, nil)
	require.NoError(t, err)

	d := c.Draft()
	require.Equal(t, registration.EventSolo, d.EventType)
	require.Equal(t, 300, d.TotalAmount)

	require.NoError(t, c.UpdateField(registration.FieldEventType, "team"))
	require.Equal(t, 500, c.TotalAmount())
	require.Equal(t, 500.0, c.AmountDue())

	require.NoError(t, c.SetEventType(registration.EventSolo))
	require.Equal(t, 300, c.TotalAmount())
	require.ErrorIs(t, c.SetEventType("duo"), registration.ErrInvalidValue)
}

func TestSoloTeam_TeamEventResetsSize(t *testing.T) {
	c := newController(t, registration.ModeSoloTeam, nil)
	require.NoError(t, c.SetEventType(registration.EventTeam))

	require.ErrorIs(t, c.SetTeamSize(2), registration.ErrInvalidValue, "size needs a team event")

	require.NoError(t, c.UpdateField(registration.FieldTeamEvent, "project-expo"))
	require.NoError(t, c.UpdateField(registration.FieldTeamSize, "4"))
	require.Equal(t, 4, c.Draft().TeamSize)

	require.ErrorIs(t, c.SetTeamSize(5), registration.ErrInvalidValue)
	require.Equal(t, 4, c.Draft().TeamSize)

	require.NoError(t, c.SetTeamEvent("ppt"))
	require.Equal(t, 0, c.Draft().TeamSize)
	require.ErrorIs(t, c.SetTeamEvent("hackathon"), registration.ErrInvalidValue)
}

func TestFixedMode_ConstantTotal(t *testing.T) {
	c := newController(t, registration.ModeFixed, nil)
	fillIdentity(t, c)

	require.Equal(t, 300, c.TotalAmount())
	require.NoError(t, c.Validate())
	require.Equal(t, 300.0, c.Payload().TotalAmount)
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	tests := []struct {
		name  string
		mode  registration.Mode
		setup func(t *testing.T, c *registration.Controller)
		field string
	}{
		{
			name: "missing email",
			mode: registration.ModeCatalog,
			setup: func(t *testing.T, c *registration.Controller) {
				fillIdentity(t, c)
				require.NoError(t, c.UpdateField(registration.FieldEmail, ""))
				require.NoError(t, c.ToggleEvent(1))
			},
			field: "email",
		},
		{
			name: "whitespace name",
			mode: registration.ModeFixed,
			setup: func(t *testing.T, c *registration.Controller) {
				fillIdentity(t, c)
				require.NoError(t, c.UpdateField(registration.FieldName, "   "))
			},
			field: "name",
		},
		{
			name:  "no events selected",
			mode:  registration.ModeCatalog,
			setup: fillIdentity,
			field: "selectedEvents",
		},
		{
			name: "team ppt without size",
			mode: registration.ModeSoloTeam,
			setup: func(t *testing.T, c *registration.Controller) {
				fillIdentity(t, c)
				require.NoError(t, c.SetEventType(registration.EventTeam))
				require.NoError(t, c.SetTeamEvent("ppt"))
			},
			field: "teamSize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registrar := mocks.NewMockRegistrar(t)
			c := newController(t, tt.mode, registrar)
			tt.setup(t, c)

			outcome, err := c.Submit(context.Background())

			var verr *registration.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tt.field)
			require.Contains(t, err.Error(), "Please fill all the fields")
			require.Equal(t, registration.OutcomeInvalid, outcome)
			require.False(t, c.Submitting())
			registrar.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

func TestValidate_WhitespaceOnlyCountsAsEmpty(t *testing.T) {
	c := newController(t, registration.ModeFixed, nil)
	fillIdentity(t, c)
	for _, f := range []registration.Field{registration.FieldName, registration.FieldCollege, registration.FieldMobile} {
		require.NoError(t, c.UpdateField(f, " \t "))
	}

	var verr *registration.ValidationError
	require.ErrorAs(t, c.Validate(), &verr)
	require.ElementsMatch(t, []string{"name", "college", "mobile"}, verr.Fields)
}

func TestSubmit_SuccessStoresQRCode(t *testing.T) {
	registrar := mocks.NewMockRegistrar(t)
	c := newController(t, registration.ModeCatalog, registrar)
	fillIdentity(t, c)
	for _, id := range []int{1, 2, 3} {
		require.NoError(t, c.ToggleEvent(id))
	}

	registrar.EXPECT().Register(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, p registration.Payload) (registration.Receipt, error) {
			assert.True(t, c.Submitting(), "submitting while the request is in flight")
			assert.Equal(t, 585.0, p.TotalAmount)
			assert.Len(t, p.SelectedEvents, 3)
			return registration.Receipt{QRCodeURL: "https://x/qr.png"}, nil
		}).Once()

	outcome, err := c.Submit(context.Background())

	require.NoError(t, err)
	require.Equal(t, registration.OutcomeAccepted, outcome)
	require.Equal(t, "https://x/qr.png", c.QRCodeURL())
	require.False(t, c.Submitting())
}

func TestSubmit_RejectionShowsNoQRCode(t *testing.T) {
	registrar := mocks.NewMockRegistrar(t)
	c := newController(t, registration.ModeCatalog, registrar)
	fillIdentity(t, c)
	require.NoError(t, c.ToggleEvent(7))

	registrar.EXPECT().Register(mock.Anything, mock.Anything).
		Return(registration.Receipt{QRCodeURL: "https://x/first.png"}, nil).Once()
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	registrar.EXPECT().Register(mock.Anything, mock.Anything).
		Return(registration.Receipt{}, &registration.ServerRejection{StatusCode: 400}).Once()

	outcome, err := c.Submit(context.Background())

	var rejection *registration.ServerRejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, 400, rejection.StatusCode)
	require.Equal(t, registration.OutcomeRejected, outcome)
	require.Equal(t, "Registration failed. Please try again.", outcome.Message())
	require.Empty(t, c.QRCodeURL())
	require.False(t, c.Submitting())
}

func TestSubmit_TransportFailure(t *testing.T) {
	registrar := mocks.NewMockRegistrar(t)
	c := newController(t, registration.ModeFixed, registrar)
	fillIdentity(t, c)

	registrar.EXPECT().Register(mock.Anything, mock.Anything).
		Return(registration.Receipt{}, &registration.TransportFailure{Err: errors.New("connection refused")}).Once()

	outcome, err := c.Submit(context.Background())

	var tf *registration.TransportFailure
	require.ErrorAs(t, err, &tf)
	require.Equal(t, registration.OutcomeFailed, outcome)
	require.Equal(t, "An error occurred. Please try again later.", outcome.Message())
	require.False(t, c.Submitting())
}

func TestSubmit_SuccessWithoutQRCodeIsMalformed(t *testing.T) {
	registrar := mocks.NewMockRegistrar(t)
	c := newController(t, registration.ModeFixed, registrar)
	fillIdentity(t, c)

	registrar.EXPECT().Register(mock.Anything, mock.Anything).Return(registration.Receipt{}, nil).Once()

	outcome, err := c.Submit(context.Background())

	require.ErrorIs(t, err, registration.ErrMalformedResponse)
	require.Equal(t, registration.OutcomeFailed, outcome)
	require.Empty(t, c.QRCodeURL())
}

func TestBegin_RejectsReentrantSubmit(t *testing.T) {
	c := newController(t, registration.ModeFixed, nil)
	fillIdentity(t, c)

	_, err := c.Begin()
	require.NoError(t, err)
	require.True(t, c.Submitting())

	_, err = c.Begin()
	require.ErrorIs(t, err, registration.ErrSubmitInFlight)

	// Edits stay live while a request is outstanding.
	require.NoError(t, c.UpdateField(registration.FieldMobile, "9000000000"))

	require.Equal(t, registration.OutcomeAccepted, c.Finish(registration.Receipt{QRCodeURL: "data:image/png;base64,AAAA"}, nil))
	require.False(t, c.Submitting())
}

func TestPayload_JSONShapes(t *testing.T) {
	t.Run("catalog", func(t *testing.T) {
		c := newController(t, registration.ModeCatalog, nil)
		fillIdentity(t, c)
		require.NoError(t, c.ToggleEvent(8))

		var body map[string]any
		raw, err := json.Marshal(c.Payload())
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))

		require.Equal(t, "3", body["year"])
		require.Equal(t, 150.0, body["totalAmount"])
		events := body["selectedEvents"].([]any)
		require.Len(t, events, 1)
		require.Equal(t, "Carrom ", events[0].(map[string]any)["name"])
		require.NotContains(t, body, "eventType")
	})

	t.Run("solo", func(t *testing.T) {
		c := newController(t, registration.ModeSoloTeam, nil)
		fillIdentity(t, c)

		raw, err := json.Marshal(c.Payload())
		require.NoError(t, err)
		require.JSONEq(t, `{
			"name":"Asha","college":"PSG Tech","department":"ECE","year":"3",
			"mobile":"9876543210","email":"asha@example.com",
			"eventType":"solo","teamEvent":"","teamSize":null,"totalAmount":300
		}`, string(raw))
	})

	t.Run("team", func(t *testing.T) {
		c := newController(t, registration.ModeSoloTeam, nil)
		fillIdentity(t, c)
		require.NoError(t, c.SetEventType(registration.EventTeam))
		require.NoError(t, c.SetTeamEvent("ppt"))
		require.NoError(t, c.SetTeamSize(3))

		var body map[string]any
		raw, err := json.Marshal(c.Payload())
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		require.Equal(t, "team", body["eventType"])
		require.Equal(t, "ppt", body["teamEvent"])
		require.Equal(t, 3.0, body["teamSize"])
	})

	t.Run("fixed", func(t *testing.T) {
		c := newController(t, registration.ModeFixed, nil)
		raw, err := json.Marshal(c.Payload())
		require.NoError(t, err)
		require.NotContains(t, string(raw), "selectedEvents")
		require.Contains(t, string(raw), `"totalAmount":300`)
	})
}

func TestReset(t *testing.T) {
	c := newController(t, registration.ModeSoloTeam, nil)
	fillIdentity(t, c)
	require.NoError(t, c.SetEventType(registration.EventTeam))

	c.Reset()

	d := c.Draft()
	require.Empty(t, d.Name)
	require.Equal(t, registration.EventSolo, d.EventType)
	require.Equal(t, 300, d.TotalAmount)
}

func TestSend_WithoutRegistrarIsTransportFailure(t *testing.T) {
	c := newController(t, registration.ModeFixed, nil)
	fillIdentity(t, c)

	outcome, err := c.Submit(context.Background())
	require.Equal(t, registration.OutcomeFailed, outcome)
	var tf *registration.TransportFailure
	require.ErrorAs(t, err, &tf)
	require.False(t, c.Submitting())
	require.Empty(t, c.QRCodeURL())
}
