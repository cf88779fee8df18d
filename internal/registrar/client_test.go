package registrar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/tracing"
)

// fakeService stands in for the registration backend.
type fakeService struct {
	status int
	body   string
	delay  time.Duration
	calls  atomic.Int32

	mu       sync.Mutex
	lastBody map[string]any
	lastType string
}

func (f *fakeService) last() (map[string]any, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody, f.lastType
}

func (f *fakeService) router() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/register", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastBody, f.lastType = body, r.Header.Get("Content-Type")
		f.mu.Unlock()
		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	})
	return r
}

func startFake(t *testing.T, f *fakeService) string {
	t.Helper()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return srv.URL + "/api/register"
}

func samplePayload() registration.Payload {
	return registration.Payload{
		Mode:       registration.ModeCatalog,
		Name:       "Asha",
		College:    "PSG Tech",
		Department: "ECE",
		Year:       "3",
		Mobile:     "9876543210",
		Email:      "asha@example.com",
		SelectedEvents: []registration.CatalogEvent{
			{ID: 1, Name: "Paper Presentation", Price: 200},
			{ID: 2, Name: "Project Expo", Price: 300},
			{ID: 3, Name: "Technical Quiz", Price: 150},
		},
		TotalAmount: 585,
	}
}

func TestRegister_Success(t *testing.T) {
	f := &fakeService{status: http.StatusOK, body: `{"qrCodeURL":"https://x/qr.png","id":"r-1"}`}
	c := New(startFake(t, f))

	receipt, err := c.Register(context.Background(), samplePayload())

	require.NoError(t, err)
	require.Equal(t, "https://x/qr.png", receipt.QRCodeURL)
	require.EqualValues(t, 1, f.calls.Load())
	body, contentType := f.last()
	require.Equal(t, "application/json", contentType)
	require.Equal(t, 585.0, body["totalAmount"])
	require.Len(t, body["selectedEvents"], 3)
}

func TestRegister_CreatedIsSuccess(t *testing.T) {
	f := &fakeService{status: http.StatusCreated, body: `{"qrCodeURL":"data:image/png;base64,AAAA"}`}

	receipt, err := New(startFake(t, f)).Register(context.Background(), samplePayload())

	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AAAA", receipt.QRCodeURL)
}

func TestRegister_RejectionIsNotRetried(t *testing.T) {
	f := &fakeService{status: http.StatusBadRequest, body: `{"error":"duplicate email"}`}

	_, err := New(startFake(t, f)).Register(context.Background(), samplePayload())

	var rejection *registration.ServerRejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, http.StatusBadRequest, rejection.StatusCode)
	require.Contains(t, rejection.Body, "duplicate email")
	require.EqualValues(t, 1, f.calls.Load())
}

func TestRegister_MalformedSuccessBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `<html>ok</html>`,
		"missing qr": `{"status":"ok"}`,
	} {
		t.Run(name, func(t *testing.T) {
			f := &fakeService{status: http.StatusOK, body: body}

			_, err := New(startFake(t, f)).Register(context.Background(), samplePayload())

			var tf *registration.TransportFailure
			require.ErrorAs(t, err, &tf)
			require.ErrorIs(t, err, registration.ErrMalformedResponse)
		})
	}
}

func TestRegister_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/api/register"
	srv.Close()

	_, err := New(url).Register(context.Background(), samplePayload())

	var tf *registration.TransportFailure
	require.ErrorAs(t, err, &tf)
}

func TestRegister_Timeout(t *testing.T) {
	f := &fakeService{status: http.StatusOK, body: `{"qrCodeURL":"late"}`, delay: time.Second}

	_, err := New(startFake(t, f), WithTimeout(20*time.Millisecond)).Register(context.Background(), samplePayload())

	var tf *registration.TransportFailure
	require.ErrorAs(t, err, &tf)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRegister_RecordsSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	f := &fakeService{status: http.StatusServiceUnavailable, body: "down"}
	c := New(startFake(t, f), WithTracer(tp.Tracer("test")))

	_, err := c.Register(context.Background(), samplePayload())
	require.Error(t, err)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, tracing.SpanSubmit, span.Name)
	require.Equal(t, codes.Error, span.Status.Code)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes {
		attrs[kv.Key] = kv.Value
	}
	require.Equal(t, int64(503), attrs[tracing.AttrHTTPStatus].AsInt64())
	require.Equal(t, "rejection", attrs[tracing.AttrErrorType].AsString())
	require.Equal(t, int64(3), attrs[tracing.AttrEventCount].AsInt64())
	require.Len(t, attrs[tracing.AttrAttemptID].AsString(), 36)
}

func TestRegister_ThroughController(t *testing.T) {
	f := &fakeService{status: http.StatusOK, body: `{"qrCodeURL":"https://x/qr.png"}`}
	ctrl, err := registration.NewController(registration.DefaultPricing(), New(startFake(t, f)))
	require.NoError(t, err)

	for field, v := range map[registration.Field]string{
		registration.FieldName: "Asha", registration.FieldCollege: "PSG Tech",
		registration.FieldDepartment: "ECE", registration.FieldYear: "2",
		registration.FieldMobile: "9876543210", registration.FieldEmail: "asha@example.com",
	} {
		require.NoError(t, ctrl.UpdateField(field, v))
	}
	require.NoError(t, ctrl.ToggleEvent(1))
	require.NoError(t, ctrl.ToggleEvent(2))

	outcome, err := ctrl.Submit(context.Background())

	require.NoError(t, err)
	require.Equal(t, registration.OutcomeAccepted, outcome)
	require.Equal(t, "https://x/qr.png", ctrl.QRCodeURL())
	body, _ := f.last()
	require.Equal(t, 500.0, body["totalAmount"])
}
