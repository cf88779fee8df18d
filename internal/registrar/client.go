// Package registrar sends registrations to the symposium's HTTP endpoint.
package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/tracing"
)

const (
	maxResponseBytes = 1 << 20
	maxRejectionBody = 512
)

// Client posts registration payloads as JSON. It makes exactly one attempt
// per call and sends no authentication or idempotency headers.
type Client struct {
	url     string
	http    *http.Client
	tracer  trace.Tracer
	timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTracer records each request as a client span.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithTimeout bounds each request; zero leaves it unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New builds a client for the full register URL.
func New(registerURL string, opts ...Option) *Client {
	c := &Client{
		url:    registerURL,
		http:   http.DefaultClient,
		tracer: noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL is the endpoint the client posts to.
func (c *Client) URL() string { return c.url }

// Register implements registration.Registrar.
func (c *Client) Register(ctx context.Context, p registration.Payload) (registration.Receipt, error) {
	attempt := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, tracing.SpanSubmit,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(tracing.AttrAttemptID, attempt),
			attribute.String(tracing.AttrPricingMode, string(p.Mode)),
			attribute.Int(tracing.AttrEventCount, len(p.SelectedEvents)),
			attribute.Float64(tracing.AttrAmount, p.TotalAmount),
			attribute.String(tracing.AttrHTTPURL, c.url),
		),
	)
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	receipt, err := c.do(ctx, span, p)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(tracing.AttrErrorType, errorType(err)))
		log.ErrorErr(log.CatSubmit, "registration request failed", err, "attempt", attempt, "url", c.url)
		return registration.Receipt{}, err
	}
	span.SetStatus(codes.Ok, "")
	log.Info(log.CatSubmit, "registration request accepted", "attempt", attempt)
	return receipt, nil
}

func (c *Client) do(ctx context.Context, span trace.Span, p registration.Payload) (registration.Receipt, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return registration.Receipt{}, &registration.TransportFailure{Err: fmt.Errorf("encoding payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return registration.Receipt{}, &registration.TransportFailure{Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return registration.Receipt{}, &registration.TransportFailure{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	span.AddEvent(tracing.EventRequestSent)
	span.SetAttributes(attribute.Int(tracing.AttrHTTPStatus, resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxRejectionBody))
		return registration.Receipt{}, &registration.ServerRejection{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var receipt registration.Receipt
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&receipt); err != nil {
		return registration.Receipt{}, &registration.TransportFailure{Err: fmt.Errorf("decoding response: %w", errors.Join(registration.ErrMalformedResponse, err))}
	}
	if receipt.QRCodeURL == "" {
		return registration.Receipt{}, &registration.TransportFailure{Err: registration.ErrMalformedResponse}
	}
	span.AddEvent(tracing.EventBodyDecoded)
	return receipt, nil
}

func errorType(err error) string {
	var rejection *registration.ServerRejection
	if errors.As(err, &rejection) {
		return "rejection"
	}
	if errors.Is(err, registration.ErrMalformedResponse) {
		return "malformed"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "transport"
}
